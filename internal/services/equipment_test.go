package services

import (
	"context"
	"testing"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEquipmentFixture(role entities.UserRole) (*memStore, *recordingBus, *EquipmentService, context.Context) {
	store := newMemStore(time.Now)
	store.teams[1] = entities.Team{ID: 1, Name: "Mechanics"}
	store.users[2] = entities.User{ID: 2, Role: entities.RoleTechnician}
	bus := &recordingBus{}
	svc := NewEquipmentService(&fakeEquipmentRepo{store: store}, bus, zap.NewNop())
	ctx := utils.WithActor(context.Background(), &entities.User{ID: 99, Role: role})
	return store, bus, svc, ctx
}

func validEquipment() dto.CreateEquipmentDTO {
	return dto.CreateEquipmentDTO{
		Name: "CNC", SerialNumber: "CNC-1", Department: "Workshop",
		DefaultTeamID: 1, DefaultTechnicianID: 2,
	}
}

func TestEquipmentService_CreateRequiresManager(t *testing.T) {
	_, _, svc, ctx := newEquipmentFixture(entities.RoleEmployee)
	_, err := svc.CreateEquipment(ctx, validEquipment())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, _, svc, ctx = newEquipmentFixture(entities.RoleTechnician)
	_, err = svc.CreateEquipment(ctx, validEquipment())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestEquipmentService_Create(t *testing.T) {
	_, bus, svc, ctx := newEquipmentFixture(entities.RoleManager)

	e, err := svc.CreateEquipment(ctx, validEquipment())
	require.NoError(t, err)
	assert.Equal(t, entities.StatusActive, e.Status)
	assert.Equal(t, []string{events.EquipmentChangedEvent}, bus.names())

	bad := validEquipment()
	bad.SerialNumber = "CNC-2"
	bad.DefaultTechnicianID = 404
	_, err = svc.CreateEquipment(ctx, bad)
	var vErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestEquipmentService_UpdatePatch(t *testing.T) {
	store, _, svc, ctx := newEquipmentFixture(entities.RoleAdmin)
	location := "Hall 2"
	e, err := svc.CreateEquipment(ctx, dto.CreateEquipmentDTO{
		Name: "Drill", SerialNumber: "D-1", Department: "Workshop", Location: &location,
		DefaultTeamID: 1, DefaultTechnicianID: 2,
	})
	require.NoError(t, err)

	patch := dto.UpdateEquipmentDTO{Status: null.StringFrom(string(entities.StatusUnderMaintenance))}
	patch.SetSentFields(map[string]bool{"status": true, "location": true})
	updated, err := svc.UpdateEquipment(ctx, e.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusUnderMaintenance, updated.Status)
	assert.Nil(t, updated.Location)
	assert.Equal(t, "Drill", store.equipment[e.ID].Name)

	nulled := dto.UpdateEquipmentDTO{}
	nulled.SetSentFields(map[string]bool{"name": true})
	_, err = svc.UpdateEquipment(ctx, e.ID, nulled)
	var vErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.UpdateEquipment(ctx, 12345, dto.UpdateEquipmentDTO{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEquipmentService_Delete(t *testing.T) {
	_, _, svc, ctx := newEquipmentFixture(entities.RoleAdmin)
	e, err := svc.CreateEquipment(ctx, validEquipment())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEquipment(ctx, e.ID))
	assert.ErrorIs(t, svc.DeleteEquipment(ctx, e.ID), apperrors.ErrNotFound)
}
