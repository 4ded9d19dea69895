package permission

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"backoffice/internal/model"
)

// Action precedence in grouped output.
var actionOrder = map[string]int{
	ActionView:   1,
	ActionAdd:    2,
	ActionChange: 3,
	ActionDelete: 4,
}

const otherActionOrder = 99

var supportedLanguages = []language.Tag{language.English, language.Spanish}

var actionLabels = map[language.Tag]map[string]string{
	language.English: {
		ActionView:   "View",
		ActionAdd:    "Create",
		ActionChange: "Edit",
		ActionDelete: "Delete",
	},
	language.Spanish: {
		ActionView:   "Ver",
		ActionAdd:    "Crear",
		ActionChange: "Editar",
		ActionDelete: "Eliminar",
	},
}

// Item is one checkbox in a Node.
type Item struct {
	ID       uuid.UUID `json:"id"`
	Codename string    `json:"codename"`
	Action   string    `json:"action"`
	Label    string    `json:"label"`
	Selected bool      `json:"selected"`
}

// Node groups the permissions of one model.
type Node struct {
	Namespace  string `json:"namespace"`
	Model      string `json:"model"`
	ModelLabel string `json:"model_label"`
	Items      []Item `json:"items"`
}

// Catalog knows which permissions may be assigned and how to present them.
type Catalog struct {
	models  map[string]ModelDef
	allowed map[string]bool
	labels  map[string]string
	tag     language.Tag
}

// NewCatalog builds a catalog over defs. lang picks the action labels ("en", "es", ...);
// unsupported languages fall back to English.
func NewCatalog(defs []ModelDef, lang string) *Catalog {
	tag, _, _ := language.NewMatcher(supportedLanguages).Match(language.Make(lang))
	base, _ := tag.Base()

	labels := actionLabels[language.English]
	for t, l := range actionLabels {
		if b, _ := t.Base(); b == base {
			labels = l
		}
	}

	denied := make(map[string]bool, len(Denylist))
	for _, ns := range Denylist {
		denied[ns] = true
	}

	c := &Catalog{
		models:  make(map[string]ModelDef, len(defs)),
		allowed: make(map[string]bool),
		labels:  labels,
		tag:     tag,
	}
	for _, d := range defs {
		c.models[d.Key()] = d
		if d.Business && !denied[d.Namespace] {
			c.allowed[d.Namespace] = true
		}
	}
	return c
}

// AllowedNamespaces lists assignable namespaces in sorted order.
func (c *Catalog) AllowedNamespaces() []string {
	out := make([]string, 0, len(c.allowed))
	for ns := range c.allowed {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Allows reports whether p may be assigned.
func (c *Catalog) Allows(p model.Permission) bool {
	return c.allowed[p.Namespace] && p.Model != LogEntryModel
}

// FilterAllowed keeps the assignable permissions, preserving order.
func (c *Catalog) FilterAllowed(perms []model.Permission) []model.Permission {
	out := make([]model.Permission, 0, len(perms))
	for _, p := range perms {
		if c.Allows(p) {
			out = append(out, p)
		}
	}
	return out
}

// ActionOf returns the codename prefix before the first "_".
func ActionOf(codename string) string {
	action, _, _ := strings.Cut(codename, "_")
	return action
}

// Label is the display label of p: a fixed word for the four standard
// actions, otherwise the permission name title-cased.
func (c *Catalog) Label(p model.Permission) string {
	if l, ok := c.labels[ActionOf(p.Codename)]; ok {
		return l
	}
	return cases.Title(c.tag).String(p.Name)
}

// ModelLabel returns the registered label for a model, or the raw model name.
func (c *Catalog) ModelLabel(namespace, modelName string) string {
	if d, ok := c.models[namespace+"."+modelName]; ok && d.Label != "" {
		return d.Label
	}
	return modelName
}

// Build groups the assignable subset of perms for display, marking selected ids.
// Output order depends only on the input set.
func (c *Catalog) Build(perms []model.Permission, selected []uuid.UUID) []Node {
	sel := make(map[uuid.UUID]bool, len(selected))
	for _, id := range selected {
		sel[id] = true
	}

	type item struct {
		Item
		order int
	}
	type group struct {
		node  Node
		items []item
	}

	groups := make(map[string]*group)
	for _, p := range c.FilterAllowed(perms) {
		label := c.ModelLabel(p.Namespace, p.Model)
		key := p.Namespace + "\x00" + label
		g, ok := groups[key]
		if !ok {
			g = &group{node: Node{Namespace: p.Namespace, Model: p.Model, ModelLabel: label}}
			groups[key] = g
		}

		action := ActionOf(p.Codename)
		order, ok := actionOrder[action]
		if !ok {
			order = otherActionOrder
		}
		g.items = append(g.items, item{
			Item: Item{
				ID:       p.ID,
				Codename: p.Codename,
				Action:   action,
				Label:    c.Label(p),
				Selected: sel[p.ID],
			},
			order: order,
		})
	}

	nodes := make([]Node, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.items, func(i, j int) bool {
			a, b := g.items[i], g.items[j]
			if a.order != b.order {
				return a.order < b.order
			}
			if a.Label != b.Label {
				return a.Label < b.Label
			}
			return a.Codename < b.Codename
		})
		g.node.Items = make([]Item, len(g.items))
		for i, it := range g.items {
			g.node.Items[i] = it.Item
		}
		nodes = append(nodes, g.node)
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Namespace != nodes[j].Namespace {
			return nodes[i].Namespace < nodes[j].Namespace
		}
		return strings.ToLower(nodes[i].ModelLabel) < strings.ToLower(nodes[j].ModelLabel)
	})
	return nodes
}

// Seed returns the permission rows implied by defs, ready to upsert by codename.
func Seed(defs []ModelDef) []model.Permission {
	var out []model.Permission
	for _, d := range defs {
		actions := d.Actions
		if len(actions) == 0 {
			actions = DefaultActions
		}
		for _, a := range actions {
			out = append(out, model.Permission{
				Namespace: d.Namespace,
				Model:     d.Model,
				Codename:  Codename(a, d.Model),
				Name:      defaultName(a, d.Label),
			})
		}
	}
	return out
}
