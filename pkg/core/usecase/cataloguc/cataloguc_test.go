// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cataloguc_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/momeni/clean-library/internal/test/memrepo"
	"github.com/momeni/clean-library/pkg/core/cerr"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
	"github.com/momeni/clean-library/pkg/core/usecase/cataloguc"
	"github.com/stretchr/testify/suite"
)

// digits accepts phone numbers with 10 digits, ignoring separators.
type digits struct{}

func (digits) Normalize(phone string) (string, error) {
	d := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(d) != 10 {
		return "", errors.New("expected 10 digits")
	}
	return "+91" + d, nil
}

type (
	membersUseCase = cataloguc.UseCase[model.Member, *model.Member]
	membersOption  = cataloguc.Option[model.Member, *model.Member]
)

type CatalogUseCaseTestSuite struct {
	suite.Suite

	ctx     context.Context
	store   *memrepo.Store
	members *membersUseCase
}

func TestCatalogUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogUseCaseTestSuite))
}

func (s *CatalogUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memrepo.New()
	var err error
	s.members, err = cataloguc.New(
		"member", s.store, s.store.MembersRepo(), filter.Members,
		cataloguc.WithPhoneNormalizer[model.Member, *model.Member](digits{}),
		cataloguc.WithDecorator[model.Member, *model.Member](
			func(_ context.Context, _ repo.Conn, ms []model.Member) error {
				for i := range ms {
					ms[i].HasOverdue = ms[i].LastName == "Late"
				}
				return nil
			},
		),
	)
	s.Require().NoError(err)
}

func (s *CatalogUseCaseTestSuite) newMember(last string) *model.Member {
	m, err := s.members.Create(s.ctx, &model.Member{
		FirstName:    "  ada ",
		LastName:     last,
		ContactEmail: "ada@example.com",
		PhoneNumber:  "98765-43210",
	})
	s.Require().NoError(err)
	return m
}

func (s *CatalogUseCaseTestSuite) TestCreateNormalizes() {
	m := s.newMember("Late")
	s.NotZero(m.ID)
	s.Equal("ada", m.FirstName)
	s.Equal("+919876543210", m.PhoneNumber)
	s.Equal(model.MemberTypeStudent, m.MemberType)
	s.True(m.HasOverdue)

	_, err := s.members.Create(s.ctx, &model.Member{
		FirstName: "Bob", LastName: "B", PhoneNumber: "12",
	})
	s.Equal(cerr.KindValidation, cerr.KindOf(err))
	_, err = s.members.Create(s.ctx, &model.Member{
		FirstName: " ", LastName: "B", PhoneNumber: "0123456789",
	})
	s.ErrorIs(err, model.ErrEmptyName)
	s.Equal(1, s.store.Members.Len())
}

func (s *CatalogUseCaseTestSuite) TestGetAndList() {
	a := s.newMember("Late")
	s.newMember("Early")
	m, err := s.members.Get(s.ctx, a.ID)
	s.Require().NoError(err)
	s.True(m.HasOverdue)

	_, err = s.members.Get(s.ctx, a.ID+10)
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))

	q := (&filter.Query{
		Orders: []filter.Order{{Column: "last_name"}},
	}).Where(filter.Members.Field("first_name"), "AD")
	ms, err := s.members.List(s.ctx, q)
	s.Require().NoError(err)
	s.Require().Len(ms, 2)
	s.Equal("Early", ms[0].LastName)
	s.False(ms[0].HasOverdue)
	s.True(ms[1].HasOverdue)

	n, err := s.members.Count(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(2, n)
}

func (s *CatalogUseCaseTestSuite) TestPatchAndUpdate() {
	m := s.newMember("Early")
	p, err := s.members.Patch(s.ctx, m.ID, func(stored *model.Member) error {
		stored.MemberType = model.MemberTypeFaculty
		stored.PhoneNumber = "(012) 345 6789"
		return nil
	})
	s.Require().NoError(err)
	s.Equal(model.MemberTypeFaculty, p.MemberType)
	s.Equal("+910123456789", p.PhoneNumber)
	s.Equal("ada@example.com", p.ContactEmail)

	_, err = s.members.Patch(s.ctx, m.ID, func(*model.Member) error {
		return errors.New("unknown field")
	})
	s.Equal(cerr.KindValidation, cerr.KindOf(err))

	u, err := s.members.Update(s.ctx, m.ID, &model.Member{
		FirstName: "Grace", LastName: "Hopper",
		PhoneNumber: "0123456789", MemberType: model.MemberTypeStaff,
	})
	s.Require().NoError(err)
	s.Equal(m.ID, u.ID)
	s.Equal("", u.ContactEmail)
	stored, _ := s.store.Members.Row(m.ID)
	s.Equal("Grace", stored.FirstName)

	_, err = s.members.Update(s.ctx, m.ID+5, u)
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
}

func (s *CatalogUseCaseTestSuite) TestDelete() {
	m := s.newMember("Early")
	s.Require().NoError(s.members.Delete(s.ctx, m.ID))
	s.Equal(0, s.store.Members.Len())
	err := s.members.Delete(s.ctx, m.ID)
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
}

func (s *CatalogUseCaseTestSuite) TestStamperAndDuplicateOptions() {
	today := model.MustParseDate("2025-08-29")
	reviews, err := cataloguc.New(
		"review", s.store, s.store.ReviewsRepo(), filter.Reviews,
		cataloguc.WithStamper[model.Review, *model.Review](func(r *model.Review) {
			r.Stamp(today)
		}),
	)
	s.Require().NoError(err)
	r, err := reviews.Create(s.ctx, &model.Review{
		MemberID: 1, BookID: 1, Rating: 4, Comment: " good ",
	})
	s.Require().NoError(err)
	s.Equal(today, *r.ReviewDate)
	s.Equal("good", r.Comment)
	s.Same(filter.Reviews, reviews.Schema())

	opt := cataloguc.WithPhoneNormalizer[model.Member, *model.Member](digits{})
	_, err = cataloguc.New(
		"member", s.store, s.store.MembersRepo(), filter.Members,
		[]membersOption{opt, opt}...,
	)
	s.Error(err)
}

func (s *CatalogUseCaseTestSuite) TestBookUpdatesKeepLentCopies() {
	books, err := cataloguc.New(
		"book", s.store, s.store.BooksRepo(), filter.Books,
	)
	s.Require().NoError(err)
	b, err := books.Create(s.ctx, &model.Book{
		Title: "Dune", ISBN: "9780441013593",
		TotalCopies: 5, AvailableCopies: 2, LibraryID: 1,
	})
	s.Require().NoError(err)

	p, err := books.Patch(s.ctx, b.ID, func(stored *model.Book) error {
		stored.Title = "Dune Messiah"
		stored.AvailableCopies = 5
		return nil
	})
	s.Require().NoError(err)
	s.Equal("Dune Messiah", p.Title)
	s.Equal(2, p.AvailableCopies, "3 copies are still lent out")

	u, err := books.Update(s.ctx, b.ID, &model.Book{
		Title: "Dune", ISBN: "9780441013593",
		TotalCopies: 4, AvailableCopies: 0, LibraryID: 1,
	})
	s.Require().NoError(err)
	s.Equal(4, u.TotalCopies)
	s.Equal(1, u.AvailableCopies)

	_, err = books.Patch(s.ctx, b.ID, func(stored *model.Book) error {
		stored.TotalCopies = 2
		return nil
	})
	s.ErrorIs(err, model.ErrTotalBelowLent)
	s.Equal(cerr.KindInvalidState, cerr.KindOf(err))
	stored, _ := s.store.Books.Row(b.ID)
	s.Equal(4, stored.TotalCopies)
	s.Equal(1, stored.AvailableCopies)
}
