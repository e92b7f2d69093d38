package services

import (
	"context"
	"sync"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/types"

	"github.com/jackc/pgx/v5"
)

// memStore backs every fake repository so the fake tx manager can roll all of them back at once.
type memStore struct {
	mu          sync.Mutex
	nextID      uint64
	requests    map[uint64]entities.MaintenanceRequest
	equipment   map[uint64]entities.Equipment
	workCenters map[uint64]entities.WorkCenter
	users       map[uint64]entities.User
	teams       map[uint64]entities.Team
	categories  map[uint64]entities.Category
	clock       func() time.Time
}

func newMemStore(clock func() time.Time) *memStore {
	return &memStore{
		nextID:      100,
		requests:    map[uint64]entities.MaintenanceRequest{},
		equipment:   map[uint64]entities.Equipment{},
		workCenters: map[uint64]entities.WorkCenter{},
		users:       map[uint64]entities.User{},
		teams:       map[uint64]entities.Team{},
		categories:  map[uint64]entities.Category{},
		clock:       clock,
	}
}

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

type memSnapshot struct {
	requests  map[uint64]entities.MaintenanceRequest
	equipment map[uint64]entities.Equipment
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		requests:  make(map[uint64]entities.MaintenanceRequest, len(s.requests)),
		equipment: make(map[uint64]entities.Equipment, len(s.equipment)),
	}
	for k, v := range s.requests {
		snap.requests[k] = v
	}
	for k, v := range s.equipment {
		snap.equipment[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.requests = snap.requests
	s.equipment = snap.equipment
}

type fakeTxManager struct {
	store     *memStore
	commits   int
	rollbacks int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.store.mu.Lock()
	snap := m.store.snapshot()
	m.store.mu.Unlock()

	if err := fn(nil); err != nil {
		m.store.mu.Lock()
		m.store.restore(snap)
		m.store.mu.Unlock()
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

type fakeRequestRepo struct {
	store *memStore
	// failUpdate makes UpdateInTx fail after the other writes of the transaction happened.
	failUpdate error
}

func (r *fakeRequestRepo) FindByID(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	return r.FindByIDInTx(ctx, nil, id)
}

func (r *fakeRequestRepo) FindByIDInTx(_ context.Context, _ repositories.Querier, id uint64) (*entities.MaintenanceRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req, ok := r.store.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &req, nil
}

func (r *fakeRequestRepo) List(_ context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]entities.MaintenanceRequest, 0)
	for _, req := range r.store.requests {
		if want, ok := filter.Filter["equipment_id"]; ok {
			id, isEquipment := req.Target.EquipmentID()
			if !isEquipment || id != want.(uint64) {
				continue
			}
		}
		out = append(out, req)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeRequestRepo) ListInRange(_ context.Context, start, end time.Time) ([]entities.MaintenanceRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	in := func(t time.Time) bool { return !t.Before(start) && !t.After(end) }
	out := make([]entities.MaintenanceRequest, 0)
	for _, req := range r.store.requests {
		if (req.ScheduledDate != nil && in(*req.ScheduledDate)) || in(req.CreatedAt) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) CreateInTx(_ context.Context, _ repositories.Querier, req *entities.MaintenanceRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req.ID = r.store.id()
	req.CreatedAt = r.store.clock()
	r.store.requests[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) UpdateInTx(_ context.Context, _ repositories.Querier, req *entities.MaintenanceRequest) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.requests[req.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.store.requests[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) Delete(_ context.Context, id uint64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.requests[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.store.requests, id)
	return nil
}

func (r *fakeRequestRepo) CountByStages(_ context.Context, stages []entities.RequestStage) (uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n uint64
	for _, req := range r.store.requests {
		for _, s := range stages {
			if req.Stage == s {
				n++
			}
		}
	}
	return n, nil
}

type fakeEquipmentRepo struct {
	store *memStore
}

func (r *fakeEquipmentRepo) FindByID(ctx context.Context, id uint64) (*entities.Equipment, error) {
	return r.FindByIDInTx(ctx, nil, id)
}

func (r *fakeEquipmentRepo) FindByIDInTx(_ context.Context, _ repositories.Querier, id uint64) (*entities.Equipment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.equipment[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r *fakeEquipmentRepo) List(_ context.Context, _ types.Filter) ([]entities.Equipment, uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]entities.Equipment, 0, len(r.store.equipment))
	for _, e := range r.store.equipment {
		out = append(out, e)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeEquipmentRepo) Create(_ context.Context, e *entities.Equipment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.teams[e.DefaultTeamID]; !ok {
		return apperrors.ErrInvalidReference
	}
	if _, ok := r.store.users[e.DefaultTechnicianID]; !ok {
		return apperrors.ErrInvalidReference
	}
	e.ID = r.store.id()
	e.CreatedAt = r.store.clock()
	r.store.equipment[e.ID] = *e
	return nil
}

func (r *fakeEquipmentRepo) Update(_ context.Context, e *entities.Equipment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.equipment[e.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.store.equipment[e.ID] = *e
	return nil
}

func (r *fakeEquipmentRepo) UpdateStatusInTx(_ context.Context, _ repositories.Querier, id uint64, status entities.EquipmentStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.equipment[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Status = status
	r.store.equipment[id] = e
	return nil
}

func (r *fakeEquipmentRepo) Delete(_ context.Context, id uint64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.equipment[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.store.equipment, id)
	return nil
}

func (r *fakeEquipmentRepo) CountNotInStatus(_ context.Context, status entities.EquipmentStatus) (uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n uint64
	for _, e := range r.store.equipment {
		if e.Status != status {
			n++
		}
	}
	return n, nil
}

type fakeWorkCenterRepo struct {
	store *memStore
}

func (r *fakeWorkCenterRepo) FindByID(ctx context.Context, id uint64) (*entities.WorkCenter, error) {
	return r.FindByIDInTx(ctx, nil, id)
}

func (r *fakeWorkCenterRepo) FindByIDInTx(_ context.Context, _ repositories.Querier, id uint64) (*entities.WorkCenter, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wc, ok := r.store.workCenters[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &wc, nil
}

func (r *fakeWorkCenterRepo) List(_ context.Context, _ types.Filter) ([]entities.WorkCenter, uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]entities.WorkCenter, 0, len(r.store.workCenters))
	for _, wc := range r.store.workCenters {
		out = append(out, wc)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeWorkCenterRepo) Create(_ context.Context, wc *entities.WorkCenter) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wc.ID = r.store.id()
	wc.CreatedAt = r.store.clock()
	r.store.workCenters[wc.ID] = *wc
	return nil
}

func (r *fakeWorkCenterRepo) Update(_ context.Context, wc *entities.WorkCenter) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.workCenters[wc.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.store.workCenters[wc.ID] = *wc
	return nil
}

func (r *fakeWorkCenterRepo) Delete(_ context.Context, id uint64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.workCenters[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.store.workCenters, id)
	return nil
}

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	return r.FindByIDInTx(ctx, nil, id)
}

func (r *fakeUserRepo) FindByIDInTx(_ context.Context, _ repositories.Querier, id uint64) (*entities.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context, _ types.Filter) ([]entities.User, uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]entities.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		out = append(out, u)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *entities.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return apperrors.ErrConflict
		}
	}
	u.ID = r.store.id()
	u.CreatedAt = r.store.clock()
	r.store.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entities.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[u.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.store.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role entities.UserRole) (uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n uint64
	for _, u := range r.store.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeTeamRepo struct {
	store *memStore
}

func (r *fakeTeamRepo) FindByID(_ context.Context, id uint64) (*entities.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.teams[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (r *fakeTeamRepo) List(_ context.Context, _ types.Filter) ([]entities.Team, uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]entities.Team, 0, len(r.store.teams))
	for _, t := range r.store.teams {
		out = append(out, t)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeTeamRepo) Create(_ context.Context, t *entities.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.teams {
		if existing.Name == t.Name {
			return apperrors.ErrConflict
		}
	}
	t.ID = r.store.id()
	t.CreatedAt = r.store.clock()
	r.store.teams[t.ID] = *t
	return nil
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (b *recordingBus) Publish(_ context.Context, event eventbus.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Name())
	}
	return out
}
