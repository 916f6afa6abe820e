package services

import (
	"errors"
	"testing"

	"github.com/coalhq/coal-server/internal/models"
)

func TestCreateStudio_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewStudioService(db)

	if _, err := svc.Create(&CreateStudioRequest{Name: "Remedy"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(&CreateStudioRequest{Name: "Remedy"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate Create() error = %v, expected ErrConflict", err)
	}
}

func TestStudioDetail_CountsGames(t *testing.T) {
	db := newTestDB(t)
	svc := NewStudioService(db)

	studio := seedStudio(t, db, "Remedy")
	seedGame(t, db, "Control", &studio.ID, nil)
	seedGame(t, db, "Alan Wake", &studio.ID, nil)
	seedGame(t, db, "Elsewhere", nil, nil)

	detail, err := svc.GetDetail(studio.ID)
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	if detail.TotalGames != 2 {
		t.Errorf("TotalGames = %d, expected 2", detail.TotalGames)
	}
}

func TestStudioDelete_DetachesGames(t *testing.T) {
	db := newTestDB(t)
	studios := NewStudioService(db)
	catalog := NewCatalogService(db)

	studio := seedStudio(t, db, "Remedy")
	ids := make([]uint, 0, 3)
	for _, title := range []string{"Control", "Alan Wake", "Quantum Break"} {
		ids = append(ids, seedGame(t, db, title, &studio.ID, nil).ID)
	}

	if err := studios.Delete(studio.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := studios.GetByID(studio.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted studio lookup error = %v, expected ErrNotFound", err)
	}

	// All three games survive, unassigned.
	for _, id := range ids {
		game, err := catalog.GetByID(id)
		if err != nil {
			t.Fatalf("game %d should survive studio deletion: %v", id, err)
		}
		if game.StudioID != nil {
			t.Errorf("game %d StudioID = %v, expected nil", id, *game.StudioID)
		}
	}

	var orphaned int64
	db.Model(&models.Game{}).Where("studio_id IS NULL").Count(&orphaned)
	if orphaned != 3 {
		t.Errorf("unassigned games = %d, expected 3", orphaned)
	}
}

func TestStudioUpdate_NameConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewStudioService(db)

	seedStudio(t, db, "Remedy")
	other := seedStudio(t, db, "Housemarque")

	if _, err := svc.Update(other.ID, &UpdateStudioRequest{Name: "Remedy"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("rename onto taken name: error = %v, expected ErrConflict", err)
	}

	updated, err := svc.Update(other.ID, &UpdateStudioRequest{Name: "Housemarque Oy", ContactInfo: "helsinki"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Housemarque Oy" || updated.ContactInfo != "helsinki" {
		t.Errorf("updated = %q / %q", updated.Name, updated.ContactInfo)
	}
}

func TestStudioGames_UnfilteredView(t *testing.T) {
	db := newTestDB(t)
	svc := NewStudioService(db)

	studio := seedStudio(t, db, "Remedy")
	seedGame(t, db, "Control", &studio.ID, nil)
	seedGame(t, db, "Alan Wake 2", &studio.ID, nil)

	games, err := svc.Games(studio.ID, 50, 0)
	if err != nil {
		t.Fatalf("Games() error = %v", err)
	}
	if len(games) != 2 {
		t.Errorf("games = %d, expected 2", len(games))
	}

	if _, err := svc.Games(999, 50, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown studio Games() error = %v, expected ErrNotFound", err)
	}
}
