package memory

import (
	"context"
	"testing"

	"github.com/graphor/graphor/model"
	"github.com/graphor/graphor/model/state"
	"github.com/graphor/graphor/runtime/execution"
	"github.com/graphor/graphor/service/dao"
	"github.com/stretchr/testify/assert"
)

func newInstance(id string) *execution.Instance[int] {
	workflow := model.NewWorkflow[int]("stored")
	return execution.NewInstance(id, workflow, state.New(id, 0), func() {})
}

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	service := New[int]()

	assert.Equal(t, dao.ErrInvalidID, service.Save(ctx, "", newInstance("x")))
	assert.Equal(t, dao.ErrNilEntity, service.Save(ctx, "x", nil))

	assert.Nil(t, service.Save(ctx, "i-1", newInstance("i-1")))
	assert.Nil(t, service.Save(ctx, "i-2", newInstance("i-2")))

	instance, err := service.Get(ctx, "i-1")
	assert.Nil(t, err)
	assert.Equal(t, "i-1", instance.ID)

	_, err = service.Get(ctx, "absent")
	assert.Equal(t, dao.ErrNotFound, err)
	_, err = service.Get(ctx, "")
	assert.Equal(t, dao.ErrInvalidID, err)

	all, err := service.List(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(all))

	assert.Nil(t, service.Delete(ctx, "i-1"))
	assert.Equal(t, dao.ErrNotFound, service.Delete(ctx, "i-1"))

	all, err = service.List(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(all))
}
