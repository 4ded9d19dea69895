package authctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIdentity_Has(t *testing.T) {
	var anon *Identity
	assert.False(t, anon.Has("view_employee"))

	staff := &Identity{Permissions: map[string]struct{}{"view_employee": {}}}
	assert.True(t, staff.Has("view_employee"))
	assert.False(t, staff.Has("delete_employee"))

	root := &Identity{IsSuperuser: true}
	assert.True(t, root.Has("view_logentry"))
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, From(ctx))
	assert.Nil(t, ActorID(ctx))

	id := &Identity{AccountID: uuid.New()}
	ctx = With(ctx, id)
	assert.Same(t, id, From(ctx))
	assert.Equal(t, id.AccountID, *ActorID(ctx))
}
