package services

import (
	"errors"
	"testing"

	"github.com/coalhq/coal-server/internal/models"
)

func TestCreateReview_RatingBounds(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	user := seedUser(t, db, "alice")
	studio := seedStudio(t, db, "Larian")
	game := seedGame(t, db, "Baldur's Gate 3", &studio.ID, nil)

	for _, rating := range []int{0, 6, -1, 100} {
		_, err := svc.Create(&CreateReviewRequest{
			GameID: game.ID,
			UserID: user.ID,
			Rating: rating,
		})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("rating %d: error = %v, expected ErrInvalidArgument", rating, err)
		}
	}

	var count int64
	db.Model(&models.Review{}).Count(&count)
	if count != 0 {
		t.Errorf("reviews persisted = %d, expected 0 after rejected ratings", count)
	}

	for rating := models.RatingMin; rating <= models.RatingMax; rating++ {
		u := seedUser(t, db, "rater"+string(rune('a'+rating)))
		if _, err := svc.Create(&CreateReviewRequest{
			GameID: game.ID,
			UserID: u.ID,
			Rating: rating,
		}); err != nil {
			t.Errorf("rating %d: unexpected error %v", rating, err)
		}
	}
}

func TestCreateReview_DuplicateIsConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	user := seedUser(t, db, "alice")
	studio := seedStudio(t, db, "Larian")
	game := seedGame(t, db, "Divinity", &studio.ID, nil)

	req := &CreateReviewRequest{GameID: game.ID, UserID: user.ID, Rating: 4}
	if _, err := svc.Create(req); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if _, err := svc.Create(req); !errors.Is(err, ErrConflict) {
		t.Fatalf("second Create() error = %v, expected ErrConflict", err)
	}
}

func TestCreateReview_SnapshotsStudio(t *testing.T) {
	db := newTestDB(t)
	reviews := NewReviewService(db)
	studios := NewStudioService(db)

	user := seedUser(t, db, "alice")
	studio := seedStudio(t, db, "Larian")
	game := seedGame(t, db, "Original Sin", &studio.ID, nil)

	review, err := reviews.Create(&CreateReviewRequest{GameID: game.ID, UserID: user.ID, Rating: 5})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if review.GameStudioID == nil || *review.GameStudioID != studio.ID {
		t.Fatal("review should snapshot the game's studio at authoring time")
	}

	// The snapshot survives the studio losing the game.
	if err := studios.Delete(studio.ID); err != nil {
		t.Fatalf("studio Delete() error = %v", err)
	}
	byStudio, err := reviews.ListByStudio(studio.ID, 20, 0)
	if err != nil {
		t.Fatalf("ListByStudio() error = %v", err)
	}
	if len(byStudio) != 1 {
		t.Errorf("reviews by studio = %d, expected the snapshot to persist", len(byStudio))
	}
}

func TestAverageForGame_NilOnEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	studio := seedStudio(t, db, "Larian")
	game := seedGame(t, db, "Unreviewed", &studio.ID, nil)

	avg, err := svc.AverageForGame(game.ID)
	if err != nil {
		t.Fatalf("AverageForGame() error = %v", err)
	}
	if avg != nil {
		t.Errorf("average = %v, expected nil for a game with no reviews", *avg)
	}
}

func TestAverageForGame_Rounding(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	studio := seedStudio(t, db, "Larian")
	game := seedGame(t, db, "Rated", &studio.ID, nil)

	// 5, 4, 4 averages to 4.333..., reported as 4.33.
	for i, rating := range []int{5, 4, 4} {
		u := seedUser(t, db, "rater"+string(rune('a'+i)))
		if _, err := svc.Create(&CreateReviewRequest{GameID: game.ID, UserID: u.ID, Rating: rating}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	avg, err := svc.AverageForGame(game.ID)
	if err != nil {
		t.Fatalf("AverageForGame() error = %v", err)
	}
	if avg == nil || *avg != 4.33 {
		t.Errorf("average = %v, expected 4.33", avg)
	}
}

func TestListByGame_IncludesAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	studio := seedStudio(t, db, "Larian")
	game := seedGame(t, db, "Aggregated", &studio.ID, nil)
	u1 := seedUser(t, db, "alice")
	u2 := seedUser(t, db, "bob")

	svc.Create(&CreateReviewRequest{GameID: game.ID, UserID: u1.ID, Rating: 3})
	svc.Create(&CreateReviewRequest{GameID: game.ID, UserID: u2.ID, Rating: 5})

	resp, err := svc.ListByGame(game.ID, 20, 0)
	if err != nil {
		t.Fatalf("ListByGame() error = %v", err)
	}
	if resp.TotalReviews != 2 || len(resp.Reviews) != 2 {
		t.Errorf("TotalReviews = %d with %d rows, expected 2 and 2", resp.TotalReviews, len(resp.Reviews))
	}
	if resp.AverageRating == nil || *resp.AverageRating != 4 {
		t.Errorf("AverageRating = %v, expected 4", resp.AverageRating)
	}
	if resp.Reviews[0].Username == "" {
		t.Error("listed reviews should carry the author's username")
	}
}

func TestUpdateReview_RevalidatesRating(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	user := seedUser(t, db, "alice")
	studio := seedStudio(t, db, "Larian")
	game := seedGame(t, db, "Editable", &studio.ID, nil)

	review, _ := svc.Create(&CreateReviewRequest{GameID: game.ID, UserID: user.ID, Rating: 2})

	bad := 9
	if _, err := svc.Update(review.ID, &UpdateReviewRequest{Rating: &bad}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Update(rating=9) error = %v, expected ErrInvalidArgument", err)
	}

	good := 4
	updated, err := svc.Update(review.ID, &UpdateReviewRequest{Rating: &good, ReviewText: "better on replay"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Rating != 4 || updated.ReviewText != "better on replay" {
		t.Errorf("updated = rating %d text %q", updated.Rating, updated.ReviewText)
	}
}

func TestDeleteReview(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	user := seedUser(t, db, "alice")
	studio := seedStudio(t, db, "Larian")
	game := seedGame(t, db, "Deletable", &studio.ID, nil)

	review, _ := svc.Create(&CreateReviewRequest{GameID: game.ID, UserID: user.ID, Rating: 1})

	if err := svc.Delete(review.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(review.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, expected ErrNotFound", err)
	}

	avg, _ := svc.AverageForGame(game.ID)
	if avg != nil {
		t.Error("average should drop back to nil once the only review is deleted")
	}
}
