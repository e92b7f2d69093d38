package repositories

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/migrations"
	"maintenance-system/pkg/database/postgresql"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testPool *pgxpool.Pool

// TestMain connects to TEST_DATABASE_URL when it is set and applies the migrations.
// Without it the integration tests skip and the rest of the package still runs.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		ctx := context.Background()
		var err error
		testPool, err = pgxpool.New(ctx, dsn)
		if err != nil {
			log.Fatalf("could not connect to test database: %v", err)
		}
		if err := postgresql.Migrate(ctx, testPool, migrations.FS, zap.NewNop()); err != nil {
			log.Fatalf("could not migrate test database: %v", err)
		}
	}

	code := m.Run()
	if testPool != nil {
		testPool.Close()
	}
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE maintenance_requests, equipment, work_centers, users, categories, teams RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

type fixture struct {
	teamID, technicianID, equipmentID uint64
}

func seedFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	team := &entities.Team{Name: "Mechanics"}
	require.NoError(t, NewTeamRepository(testPool, logger).Create(ctx, team))

	tech := &entities.User{
		Username: "tech", Email: "tech@example.com", PasswordHash: "x",
		Role: entities.RoleTechnician, TeamID: &team.ID,
	}
	require.NoError(t, NewUserRepository(testPool, logger).Create(ctx, tech))

	eq := &entities.Equipment{
		Name: "Press", SerialNumber: "SN-1", Department: "Production",
		Status: entities.StatusActive, DefaultTeamID: team.ID, DefaultTechnicianID: tech.ID,
	}
	require.NoError(t, NewEquipmentRepository(testPool, logger).Create(ctx, eq))

	return fixture{teamID: team.ID, technicianID: tech.ID, equipmentID: eq.ID}
}

func insertRequest(t *testing.T, f fixture, title string, scheduled *time.Time, createdAt time.Time) uint64 {
	t.Helper()
	var id uint64
	err := testPool.QueryRow(context.Background(), `
		INSERT INTO maintenance_requests
			(title, description, request_type, maintenance_for, equipment_id, reporter_id, scheduled_date, created_at)
		VALUES ($1, 'd', 'CORRECTIVE', 'equipment', $2, $3, $4, $5)
		RETURNING id`,
		title, f.equipmentID, f.technicianID, scheduled, createdAt,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestMaintenanceRequestRepository_Integration_ListInRange(t *testing.T) {
	requireDB(t)
	f := seedFixture(t)
	repo := NewMaintenanceRequestRepository(testPool, zap.NewNop())

	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2030, 1, 31, 23, 59, 59, 0, time.UTC)
	before := time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)

	scheduledIn := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)
	scheduledOut := time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

	byScheduled := insertRequest(t, f, "scheduled in range", &scheduledIn, before)
	byCreated := insertRequest(t, f, "created in range", nil, time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC))
	onBoundary := insertRequest(t, f, "on the end boundary", &end, before)
	insertRequest(t, f, "outside", &scheduledOut, before)

	items, err := repo.ListInRange(context.Background(), start, end)
	require.NoError(t, err)

	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	assert.ElementsMatch(t, []uint64{byScheduled, byCreated, onBoundary}, ids)
}

func TestMaintenanceRequestRepository_Integration_CreateAndFind(t *testing.T) {
	requireDB(t)
	f := seedFixture(t)
	ctx := context.Background()
	repo := NewMaintenanceRequestRepository(testPool, zap.NewNop())

	req := &entities.MaintenanceRequest{
		Title: "Leak", Description: "Oil on the floor",
		RequestType: entities.RequestCorrective, Priority: entities.PriorityHigh, Stage: entities.StageNew,
		Target: entities.EquipmentTarget(f.equipmentID), TeamID: &f.teamID, ReporterID: f.technicianID,
	}
	require.NoError(t, repo.CreateInTx(ctx, testPool, req))
	require.NotZero(t, req.ID)

	found, err := repo.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.EquipmentTarget(f.equipmentID), found.Target)
	assert.Equal(t, entities.PriorityHigh, found.Priority)

	items, total, err := repo.List(ctx, types.Filter{Filter: map[string]interface{}{"stage": "NEW"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	assert.Len(t, items, 1)

	_, err = repo.FindByID(ctx, req.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMaintenanceRequestRepository_Integration_ScrapRollsBackTogether(t *testing.T) {
	requireDB(t)
	f := seedFixture(t)
	ctx := context.Background()
	logger := zap.NewNop()
	requests := NewMaintenanceRequestRepository(testPool, logger)
	equipment := NewEquipmentRepository(testPool, logger)
	txManager := NewTxManager(testPool)

	id := insertRequest(t, f, "scrap me", nil, time.Now())
	boom := errors.New("boom")

	err := txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := requests.FindByIDInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		req.Stage = entities.StageScrap
		if err := requests.UpdateInTx(ctx, tx, req); err != nil {
			return err
		}
		if err := equipment.UpdateStatusInTx(ctx, tx, f.equipmentID, entities.StatusScrap); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	req, err := requests.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entities.StageNew, req.Stage)
	eq, err := equipment.FindByID(ctx, f.equipmentID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusActive, eq.Status)

	err = txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := requests.FindByIDInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		req.Stage = entities.StageScrap
		if err := requests.UpdateInTx(ctx, tx, req); err != nil {
			return err
		}
		return equipment.UpdateStatusInTx(ctx, tx, f.equipmentID, entities.StatusScrap)
	})
	require.NoError(t, err)

	req, err = requests.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entities.StageScrap, req.Stage)
	eq, err = equipment.FindByID(ctx, f.equipmentID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusScrap, eq.Status)
}

func TestEquipmentRepository_Integration_Conflicts(t *testing.T) {
	requireDB(t)
	f := seedFixture(t)
	ctx := context.Background()
	repo := NewEquipmentRepository(testPool, zap.NewNop())

	dup := &entities.Equipment{
		Name: "Press 2", SerialNumber: "SN-1", Department: "Production",
		Status: entities.StatusActive, DefaultTeamID: f.teamID, DefaultTechnicianID: f.technicianID,
	}
	assert.ErrorIs(t, repo.Create(ctx, dup), apperrors.ErrConflict)

	badRef := &entities.Equipment{
		Name: "Lathe", SerialNumber: "SN-2", Department: "Production",
		Status: entities.StatusActive, DefaultTeamID: f.teamID + 999, DefaultTechnicianID: f.technicianID,
	}
	assert.ErrorIs(t, repo.Create(ctx, badRef), apperrors.ErrInvalidReference)

	insertRequest(t, f, "in use", nil, time.Now())
	assert.ErrorIs(t, repo.Delete(ctx, f.equipmentID), apperrors.ErrConflict)
	assert.ErrorIs(t, repo.Delete(ctx, f.equipmentID+999), apperrors.ErrNotFound)
}

func TestUserRepository_Integration_CountByRole(t *testing.T) {
	requireDB(t)
	seedFixture(t)
	ctx := context.Background()
	repo := NewUserRepository(testPool, zap.NewNop())

	count, err := repo.CountByRole(ctx, entities.RoleTechnician)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	count, err = repo.CountByRole(ctx, entities.RoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, count)

	u, err := repo.FindByUsername(ctx, "tech")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleTechnician, u.Role)
}
