package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"helpnow/internal/volunteer"
	"helpnow/pkg/types"
)

var fakeNeedTitles = []string{
	"Food Drive Helpers",
	"Community Garden Cleanup",
	"Weekend Beach Cleanup",
	"Animal Shelter Dog Walkers",
	"After School Reading Buddies",
	"Senior Center Meal Delivery",
	"Blood Drive Check-in Desk",
	"Park Trail Restoration",
	"Clothing Bank Sorting",
	"Holiday Toy Wrapping",
}

var fakeNeedDescriptions = []string{
	"Help us sort and pack donations for families in the neighborhood.",
	"Bring gloves and energy, we provide tools and snacks.",
	"Looking for friendly faces to greet and guide visitors.",
	"No experience needed, a short orientation is given on arrival.",
	"Lift-friendly volunteers wanted for moving boxes and tables.",
	"Spend an afternoon reading with kids who are building confidence.",
	"Drivers with their own car are especially welcome.",
	"Help set up in the morning and tear down in the evening.",
}

var fakeCategories = []string{
	"healthcare",
	"education",
	"social service",
	"animal welfare",
	"environment",
}

var fakeLocations = []string{
	"Dhaka",
	"Chattogram",
	"Sylhet",
	"Khulna",
	"Rajshahi",
}

var fakeOrganizers = []types.Person{
	{Name: "Amina Rahman", Email: "amina@helpnow.test"},
	{Name: "Jordan Lee", Email: "jordan@helpnow.test"},
	{Name: "Priya Nair", Email: "priya@helpnow.test"},
}

// FakeNeeds builds count needs with deadlines spread over the weeks after now.
func FakeNeeds(rng *rand.Rand, count int, now time.Time) []*types.VolunteerNeed {
	needs := make([]*types.VolunteerNeed, 0, count)

	for range count {
		organizer := fakeOrganizers[rng.Intn(len(fakeOrganizers))]
		daysOut := 3 + rng.Intn(60)

		needs = append(needs, &types.VolunteerNeed{
			Thumbnail:        fmt.Sprintf("https://picsum.photos/seed/%d/640/360", rng.Intn(10_000)),
			PostTitle:        fakeNeedTitles[rng.Intn(len(fakeNeedTitles))],
			Description:      fakeNeedDescriptions[rng.Intn(len(fakeNeedDescriptions))],
			Category:         fakeCategories[rng.Intn(len(fakeCategories))],
			Location:         fakeLocations[rng.Intn(len(fakeLocations))],
			VolunteersNeeded: 1 + rng.Intn(20),
			Deadline:         now.AddDate(0, 0, daysOut).Truncate(24 * time.Hour).UTC(),
			Organizer:        organizer,
		})
	}

	return needs
}

// SeedNeeds inserts count fake needs through repo and returns them with their new ids.
func SeedNeeds(ctx context.Context, repo volunteer.NeedRepository, rng *rand.Rand, count int) ([]*types.VolunteerNeed, error) {
	if count <= 0 {
		return nil, nil
	}

	needs := FakeNeeds(rng, count, time.Now())
	for i, need := range needs {
		if err := volunteer.Validate(need); err != nil {
			return nil, fmt.Errorf("fake need %d is invalid: %w", i, err)
		}

		id, err := repo.CreateNeed(ctx, need)
		if err != nil {
			return nil, fmt.Errorf("failed to insert fake need %q: %w", need.PostTitle, err)
		}
		need.ID = id
	}

	return needs, nil
}
