//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"malkhana/internal/platform/postgres"
	"malkhana/internal/registry/models"
	id "malkhana/pkg/domain"
	"malkhana/pkg/platform/sentinel"
	"malkhana/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Postgres
	ctx   context.Context
	unit  id.UnitID
	now   time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.EnsureSchema(s.ctx, s.pg.Pool))
	s.store = NewPostgres(s.pg.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(s.ctx))
	s.unit = id.UnitID(uuid.New())
	s.now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) newRedInk(seq, year int) *models.EvidenceItem {
	item, err := models.NewRedInkItem(id.ItemID(uuid.New()), s.unit, seq, year, models.ItemDetails{
		Description: "integration item",
	}, id.UserID(uuid.New()), s.now)
	s.Require().NoError(err)
	return item
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	item := s.newRedInk(7, 2024)
	item.Details.CaseNumber = "FIR 9/2024"
	s.Require().NoError(s.store.Create(s.ctx, item))

	got, err := s.store.FindByID(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(item.MotherNumber(), got.MotherNumber())
	s.Equal(item.RegistryNumber, got.RegistryNumber)
	s.Equal("FIR 9/2024", got.Details.CaseNumber)
	s.Equal(models.StatusActive, got.Status)

	byMother, err := s.store.FindByMotherNumber(s.ctx, 2024, 7)
	s.Require().NoError(err)
	s.Equal(item.ID, byMother.ID)

	_, err = s.store.FindByID(s.ctx, id.ItemID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUniqueIndexRejectsDuplicateMother() {
	s.Require().NoError(s.store.Create(s.ctx, s.newRedInk(7, 2024)))

	duplicate, err := models.NewRedInkItem(id.ItemID(uuid.New()), id.UnitID(uuid.New()), 7, 2024, models.ItemDetails{}, id.UserID(uuid.New()), s.now)
	s.Require().NoError(err)
	err = s.store.Create(s.ctx, duplicate)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestRunInTxRollsBackOnError() {
	item := s.newRedInk(1, 2024)

	err := s.store.RunInTx(s.ctx, func(txCtx context.Context) error {
		if err := s.store.Create(txCtx, item); err != nil {
			return err
		}
		return sentinel.ErrInvalidState
	})
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)

	_, err = s.store.FindByID(s.ctx, item.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestRenumberEventsAttach() {
	item := s.newRedInk(4, 2024)
	s.Require().NoError(s.store.Create(s.ctx, item))

	err := s.store.AppendRenumberEvent(s.ctx, &models.RenumberEvent{
		ID:        id.EventID(uuid.New()),
		ItemID:    item.ID,
		Year:      2025,
		RedInkID:  4,
		CreatedAt: s.now,
	})
	s.Require().NoError(err)

	got, err := s.store.FindByID(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Require().Len(got.RedInkHistory, 1)
	s.Equal(4, got.RedInkHistory[0].RedInkID)
	s.Equal(2025, got.RedInkHistory[0].Year)

	err = s.store.AppendRenumberEvent(s.ctx, &models.RenumberEvent{
		ID:     id.EventID(uuid.New()),
		ItemID: id.ItemID(uuid.New()),
	})
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListOrderingAndFilters() {
	for _, seq := range []int{5, 2, 8} {
		s.Require().NoError(s.store.Create(s.ctx, s.newRedInk(seq, 2024)))
	}
	disposed := s.newRedInk(9, 2024)
	disposed.ApplyDisposal(models.Disposal{Reason: "auctioned"}, s.now)
	s.Require().NoError(s.store.Create(s.ctx, disposed))

	items, err := s.store.ListRegistry(s.ctx, id.ScopedUnit(s.unit), models.RegistryTypeRedInk, 0)
	s.Require().NoError(err)
	s.Require().Len(items, 4)
	s.Equal(2, items[0].RegistryNumber)
	s.Equal(9, items[3].RegistryNumber)

	active, err := s.store.ListActiveRedInkAbove(s.ctx, s.unit, 2)
	s.Require().NoError(err)
	s.Require().Len(active, 2)
	s.Equal(5, active[0].RegistryNumber)
	s.Equal(8, active[1].RegistryNumber)
}

func (s *PostgresStoreSuite) TestMaxQueries() {
	black, err := models.NewBlackInkItem(id.ItemID(uuid.New()), s.unit, 2025, 9, models.ItemDetails{}, id.UserID(uuid.New()), s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, black))
	s.Require().NoError(s.store.Create(s.ctx, s.newRedInk(14, 2023)))

	maxSeq, err := s.store.MaxMotherSeq(s.ctx, s.unit, 2025)
	s.Require().NoError(err)
	s.Equal(9, maxSeq)

	maxSeq, err = s.store.MaxMotherSeq(s.ctx, s.unit, 2021)
	s.Require().NoError(err)
	s.Equal(0, maxSeq)

	maxRed, err := s.store.MaxRedInkNumber(s.ctx, s.unit)
	s.Require().NoError(err)
	s.Equal(14, maxRed)
}

func (s *PostgresStoreSuite) TestSearchMatchesFormattedMotherNumber() {
	item := s.newRedInk(17, 2023)
	item.Details.Description = "golden necklace"
	s.Require().NoError(s.store.Create(s.ctx, item))

	items, err := s.store.Search(s.ctx, id.ScopedUnit(s.unit), "2023-00017")
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(item.ID, items[0].ID)

	items, err = s.store.Search(s.ctx, id.ScopedUnit(s.unit), "GOLDEN")
	s.Require().NoError(err)
	s.Len(items, 1)

	items, err = s.store.Search(s.ctx, id.ScopedUnit(id.UnitID(uuid.New())), "golden")
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *PostgresStoreSuite) TestStats() {
	black, err := models.NewBlackInkItem(id.ItemID(uuid.New()), s.unit, 2025, 1, models.ItemDetails{}, id.UserID(uuid.New()), s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, black))

	disposed := s.newRedInk(3, 2024)
	disposed.ApplyDisposal(models.Disposal{Reason: "x"}, s.now)
	s.Require().NoError(s.store.Create(s.ctx, disposed))

	stats, err := s.store.Stats(s.ctx, id.ScopedUnit(s.unit), 2025, s.now.AddDate(0, 0, -30))
	s.Require().NoError(err)
	s.Equal(1, stats.BlackInkCount)
	s.Equal(1, stats.RedInkCount)
	s.Equal(1, stats.DisposedCount)
	s.Equal(2, stats.RecentCount)
}
