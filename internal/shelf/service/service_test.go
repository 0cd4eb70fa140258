package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"malkhana/internal/shelf/models"
	"malkhana/internal/shelf/store"
	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
	"malkhana/pkg/requestcontext"
)

type ShelfServiceSuite struct {
	suite.Suite
	service *Service
	unitA   id.UnitID
	unitB   id.UnitID
	ctx     context.Context
}

func TestShelfServiceSuite(t *testing.T) {
	suite.Run(t, new(ShelfServiceSuite))
}

func (s *ShelfServiceSuite) SetupTest() {
	s.service = New(store.NewInMemory())
	s.unitA = id.UnitID(uuid.New())
	s.unitB = id.UnitID(uuid.New())
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
}

func (s *ShelfServiceSuite) TestCreateShelf() {
	s.Run("scoped caller files into own unit", func() {
		shelf, err := s.service.CreateShelf(s.ctx, &models.CreateShelfRequest{
			Name:     "rack 1",
			Location: "north wall",
		}, id.ScopedUnit(s.unitA))
		s.Require().NoError(err)
		s.Equal(s.unitA, shelf.UnitID)
		s.Equal("rack 1", shelf.Name)
	})

	s.Run("administrator must name a unit", func() {
		_, err := s.service.CreateShelf(s.ctx, &models.CreateShelfRequest{Name: "rack 2"}, id.Unrestricted())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		shelf, err := s.service.CreateShelf(s.ctx, &models.CreateShelfRequest{
			UnitID: s.unitB.String(),
			Name:   "rack 2",
		}, id.Unrestricted())
		s.Require().NoError(err)
		s.Equal(s.unitB, shelf.UnitID)
	})

	s.Run("requires a name", func() {
		_, err := s.service.CreateShelf(s.ctx, &models.CreateShelfRequest{Name: "   "}, id.ScopedUnit(s.unitA))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ShelfServiceSuite) TestGetShelf() {
	shelf, err := s.service.CreateShelf(s.ctx, &models.CreateShelfRequest{Name: "rack 1"}, id.ScopedUnit(s.unitA))
	s.Require().NoError(err)

	got, err := s.service.GetShelf(s.ctx, shelf.ID, id.ScopedUnit(s.unitA))
	s.Require().NoError(err)
	s.Equal(shelf.ID, got.ID)

	_, err = s.service.GetShelf(s.ctx, shelf.ID, id.ScopedUnit(s.unitB))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = s.service.GetShelf(s.ctx, id.ShelfID(uuid.New()), id.ScopedUnit(s.unitA))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ShelfServiceSuite) TestListShelves() {
	_, err := s.service.CreateShelf(s.ctx, &models.CreateShelfRequest{Name: "rack 1"}, id.ScopedUnit(s.unitA))
	s.Require().NoError(err)
	_, err = s.service.CreateShelf(s.ctx, &models.CreateShelfRequest{Name: "rack 2"}, id.ScopedUnit(s.unitA))
	s.Require().NoError(err)
	_, err = s.service.CreateShelf(s.ctx, &models.CreateShelfRequest{Name: "rack 3"}, id.ScopedUnit(s.unitB))
	s.Require().NoError(err)

	shelves, err := s.service.ListShelves(s.ctx, id.ScopedUnit(s.unitA))
	s.Require().NoError(err)
	s.Len(shelves, 2)

	shelves, err = s.service.ListShelves(s.ctx, id.Unrestricted())
	s.Require().NoError(err)
	s.Len(shelves, 3)
}
