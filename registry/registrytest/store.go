// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package registrytest

import (
	"sync"

	"github.com/diffeo/go-appregistry/registry"
)

// TestListSeed checks that a freshly seeded store lists the whole
// dataset in ID order.
func (s *Suite) TestListSeed() {
	apps, err := s.Store.List(s.Ctx)
	if !s.NoError(err) {
		return
	}
	if s.Len(apps, SeedSize) {
		s.Equal(Fintone, apps[0])
	}
	for i := 1; i < len(apps); i++ {
		s.True(apps[i-1].ID < apps[i].ID,
			"apps[%d].ID=%d, apps[%d].ID=%d", i-1, apps[i-1].ID, i, apps[i].ID)
	}
	s.CountIs(SeedSize)
}

// TestGet retrieves a known record.
func (s *Suite) TestGet() {
	s.Has(It)
	s.Has(Fintone)
}

// TestGetMissing retrieves an absent record.
func (s *Suite) TestGetMissing() {
	_, err := s.Store.Get(s.Ctx, MissingID)
	s.Equal(registry.ErrNoSuchApplication{ID: MissingID}, err)
}

// TestCreate adds a new record to the full seed dataset.
func (s *Suite) TestCreate() {
	app, err := s.Store.Create(s.Ctx, Wootwa)
	if !s.NoError(err) {
		return
	}
	s.Equal(withID(Wootwa, SeedSize+1), app)
	s.Has(app)
	s.CountIs(SeedSize + 1)

	apps, err := s.Store.List(s.Ctx)
	if s.NoError(err) && s.NotEmpty(apps) {
		s.Equal(app, apps[len(apps)-1])
	}
}

// TestCreateIgnoresID checks that a caller-provided ID does not
// replace an existing record.
func (s *Suite) TestCreateIgnoresID() {
	app, err := s.Store.Create(s.Ctx, withID(Wootwa, It.ID))
	if s.NoError(err) {
		s.NotEqual(It.ID, app.ID)
	}
	s.Has(It)
	s.CountIs(SeedSize + 1)
}

// TestCreateAfterDelete checks that new records never reuse the ID
// of a record that is still present.
func (s *Suite) TestCreateAfterDelete() {
	s.NoError(s.Store.Delete(s.Ctx, 1))
	s.CountIs(SeedSize - 1)

	seen := map[int]bool{}
	for i := 0; i < 3; i++ {
		app, err := s.Store.Create(s.Ctx, Wootwa)
		if s.NoError(err) {
			s.False(seen[app.ID], "duplicate id %d", app.ID)
			seen[app.ID] = true
		}
	}
	s.Has(It)
	s.CountIs(SeedSize + 2)

	apps, err := s.Store.List(s.Ctx)
	if s.NoError(err) {
		ids := map[int]bool{}
		for _, app := range apps {
			s.False(ids[app.ID], "duplicate id %d", app.ID)
			ids[app.ID] = true
		}
	}
}

// TestUpdate replaces a known record.
func (s *Suite) TestUpdate() {
	changed := registry.Application{
		AppName:     "It",
		AppVersion:  "1.0.0",
		Logo:        "dictumst.png",
		CompanyName: It.CompanyName,
	}
	app, err := s.Store.Update(s.Ctx, It.ID, changed)
	if s.NoError(err) {
		s.Equal(withID(changed, It.ID), app)
	}
	s.Has(withID(changed, It.ID))
	s.CountIs(SeedSize)
}

// TestUpdateForcesID checks that the path ID wins over the record ID.
func (s *Suite) TestUpdateForcesID() {
	app, err := s.Store.Update(s.Ctx, It.ID, withID(Wootwa, Fintone.ID))
	if s.NoError(err) {
		s.Equal(It.ID, app.ID)
	}
	s.Has(withID(Wootwa, It.ID))
	s.Has(Fintone)
}

// TestUpdateMissing checks that updating an absent record does not
// create it.
func (s *Suite) TestUpdateMissing() {
	_, err := s.Store.Update(s.Ctx, MissingID, Wootwa)
	s.Equal(registry.ErrNoSuchApplication{ID: MissingID}, err)
	s.Missing(MissingID)
	s.CountIs(SeedSize)
}

// TestDelete removes several records.
func (s *Suite) TestDelete() {
	for _, id := range []int{11, 22, 33} {
		s.NoError(s.Store.Delete(s.Ctx, id))
		s.Missing(id)
	}
	s.CountIs(SeedSize - 3)
	s.Has(It)
}

// TestDeleteMissing deletes an absent record.
func (s *Suite) TestDeleteMissing() {
	err := s.Store.Delete(s.Ctx, MissingID)
	s.Equal(registry.ErrNoSuchApplication{ID: MissingID}, err)
	s.CountIs(SeedSize)
}

// TestDeleteTwice deletes the same record twice.
func (s *Suite) TestDeleteTwice() {
	s.NoError(s.Store.Delete(s.Ctx, It.ID))
	err := s.Store.Delete(s.Ctx, It.ID)
	s.True(registry.IsNotFound(err))
	_, err = s.Store.Update(s.Ctx, It.ID, It)
	s.True(registry.IsNotFound(err))
	s.CountIs(SeedSize - 1)
}

// TestConcurrentCreate creates records from many goroutines at once
// and checks that every one got a distinct ID.
func (s *Suite) TestConcurrentCreate() {
	const workers = 8
	const each = 10

	ids := make(chan int, workers*each)
	errs := make(chan error, workers*each)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				app, err := s.Store.Create(s.Ctx, Wootwa)
				if err != nil {
					errs <- err
					continue
				}
				ids <- app.ID
			}
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	seen := map[int]bool{}
	for id := range ids {
		s.False(seen[id], "duplicate id %d", id)
		s.True(id > SeedSize, "new id %d collides with seed", id)
		seen[id] = true
	}
	s.Len(seen, workers*each)
	s.CountIs(SeedSize + workers*each)
}
