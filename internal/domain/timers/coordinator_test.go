package timers

import "testing"

func TestCoordinator_MealOffersEmptyStomachWindow(t *testing.T) {
	c := NewCoordinator(nil, "")

	offer := c.Decide("Breakfast", map[string]bool{"Breakfast": true})
	if offer == nil {
		t.Fatal("expected offer after meal")
	}
	if offer.Hours != 2 || offer.Label != "Empty stomach" {
		t.Fatalf("unexpected offer: %+v", offer)
	}
}

func TestCoordinator_MealAfterGatedTaskGiven(t *testing.T) {
	c := NewCoordinator(nil, "")

	// La medicación ya se dio: la ventana de estómago vacío no aporta.
	offer := c.Decide("Dinner", map[string]bool{
		"Dinner":    true,
		"Denamarin": true,
	})
	if offer != nil {
		t.Fatalf("expected no offer when gated task already done, got %+v", offer)
	}
}

func TestCoordinator_GatedTaskOffersNextMeal(t *testing.T) {
	c := NewCoordinator(nil, "")

	offer := c.Decide("Denamarin", map[string]bool{
		"Denamarin": true,
		"Breakfast": true,
	})
	if offer == nil {
		t.Fatal("expected offer after gated task with meals pending")
	}
	if offer.Hours != 1 || offer.Label != "Next meal ready" {
		t.Fatalf("unexpected offer: %+v", offer)
	}
}

func TestCoordinator_GatedTaskWithAllMealsDone(t *testing.T) {
	c := NewCoordinator(nil, "")

	offer := c.Decide("Denamarin", map[string]bool{
		"Denamarin": true,
		"Breakfast": true,
		"Dinner":    true,
	})
	if offer != nil {
		t.Fatalf("expected no offer when no meals remain, got %+v", offer)
	}
}

func TestCoordinator_UnrelatedTask(t *testing.T) {
	c := NewCoordinator(nil, "")

	if offer := c.Decide("Fish Oil", map[string]bool{"Fish Oil": true}); offer != nil {
		t.Fatalf("expected no offer for unrelated task, got %+v", offer)
	}
}

func TestCoordinator_CustomRules(t *testing.T) {
	c := NewCoordinator([]string{"Lunch"}, "Pill")

	if offer := c.Decide("Breakfast", nil); offer != nil {
		t.Fatalf("Breakfast is not a meal here, got %+v", offer)
	}
	if offer := c.Decide("Lunch", map[string]bool{"Lunch": true}); offer == nil {
		t.Fatal("expected offer for custom meal")
	}
	if offer := c.Decide("Pill", map[string]bool{"Pill": true}); offer == nil {
		t.Fatal("expected next-meal offer for custom gated task")
	}
}
