package listings

import (
	"context"
	"testing"

	"homescout-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

func setupListingService(t *testing.T) (*Service, *countingInvalidator, uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Listing{}, &domain.ListingView{}, &domain.ListingEvent{}, &domain.Favorite{}))
	owner := domain.User{Fullname: "Ravi Mehta", Email: "ravi@example.com", Phone: "9876543210", PasswordHash: "x", Role: "user"}
	require.NoError(t, db.Create(&owner).Error)
	inv := &countingInvalidator{}
	return &Service{DB: db, Cache: inv}, inv, owner.UserID
}

func validInput() ListingInput {
	desc := "  Corner flat with sea view  "
	return ListingInput{
		Title:        "2BHK in Bandra",
		Developer:    "Lodha",
		Price:        "Rs 45,000/month",
		Area:         "950 sq ft",
		Bedrooms:     2,
		Bathrooms:    2,
		Images:       map[string][]string{"Exterior": {"https://res.cloudinary.com/demo/image/upload/a.jpg"}},
		Location:     "Bandra West, Mumbai",
		MarketType:   "rent",
		Latitude:     19.06,
		Longitude:    72.83,
		PropertyType: "apartment",
		Furnishing:   "semi furnished",
		Parking:      true,
		Amenities:    []string{" Gym ", "", "Lift"},
		Description:  &desc,
	}
}

func TestCreate_ValidatesInput(t *testing.T) {
	s, _, owner := setupListingService(t)
	ctx := context.Background()

	cases := map[error]func(*ListingInput){
		ErrTitleRequired:       func(in *ListingInput) { in.Title = " " },
		ErrPriceRequired:       func(in *ListingInput) { in.Price = "" },
		ErrLocationRequired:    func(in *ListingInput) { in.Location = "" },
		ErrInvalidMarketType:   func(in *ListingInput) { in.MarketType = "lease" },
		ErrInvalidPropertyType: func(in *ListingInput) { in.PropertyType = "castle" },
		ErrInvalidFurnishing:   func(in *ListingInput) { in.Furnishing = "partly" },
		ErrInvalidCoordinates:  func(in *ListingInput) { in.Latitude = 95 },
		ErrInvalidRooms:        func(in *ListingInput) { in.Bedrooms = -1 },
		ErrInvalidImageURL:     func(in *ListingInput) { in.Images = map[string][]string{"x": {"ftp://a"}} },
	}
	for want, mutate := range cases {
		in := validInput()
		mutate(&in)
		_, err := s.Create(ctx, owner, in)
		assert.ErrorIs(t, err, want)
	}

	_, err := s.Create(ctx, uuid.New(), validInput())
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestCreate_StartsPendingWithEvent(t *testing.T) {
	s, inv, owner := setupListingService(t)
	ctx := context.Background()

	l, err := s.Create(ctx, owner, validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, l.Status)
	assert.Equal(t, domain.MarketRent, l.MarketType)
	assert.Equal(t, domain.PropertyApartment, l.PropertyType)
	assert.Equal(t, domain.SemiFurnished, l.Furnishing)
	assert.Equal(t, "Ravi Mehta", l.OwnerName)
	assert.Equal(t, []string{"Gym", "Lift"}, []string(l.Amenities))
	assert.Equal(t, "Corner flat with sea view", *l.Description)
	assert.Contains(t, l.Images.Data(), "exterior")
	assert.Equal(t, 1, inv.n)

	events, err := s.Events(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventCreated, events[0].EventType)

	_, err = s.Get(ctx, l.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrListingNotFound, "pending listings are hidden from others")
	got, err := s.Get(ctx, l.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, l.ID, got.ID)
	_, err = s.Get(ctx, l.ID, uuid.Nil, true)
	assert.NoError(t, err)
}

func TestRecordView_UniquePerViewer(t *testing.T) {
	s, _, owner := setupListingService(t)
	ctx := context.Background()
	l, err := s.Create(ctx, owner, validInput())
	require.NoError(t, err)

	viewer := uuid.New()
	require.NoError(t, s.RecordView(ctx, l.ID, viewer))
	require.NoError(t, s.RecordView(ctx, l.ID, viewer))
	require.NoError(t, s.RecordView(ctx, l.ID, uuid.Nil))
	require.NoError(t, s.RecordView(ctx, l.ID, owner))

	got, err := s.Get(ctx, l.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ViewCount)
	assert.Equal(t, int64(1), got.UniqueViewCount)

	assert.ErrorIs(t, s.RecordView(ctx, 9999, viewer), ErrListingNotFound)
}

func TestUpdate_ApprovedGoesBackToPending(t *testing.T) {
	s, _, owner := setupListingService(t)
	ctx := context.Background()
	l, err := s.Create(ctx, owner, validInput())
	require.NoError(t, err)
	require.NoError(t, s.DB.Model(l).Update("status", domain.StatusApproved).Error)

	in := validInput()
	in.Price = "Rs 50,000/month"
	_, err = s.Update(ctx, uuid.New(), l.ID, in)
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := s.Update(ctx, owner, l.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, updated.Status)
	assert.Equal(t, "Rs 50,000/month", updated.Price)

	events, _ := s.Events(ctx, l.ID)
	assert.Equal(t, domain.EventResubmitted, events[len(events)-1].EventType)
}

func TestSoftDelete_KeepsRejected(t *testing.T) {
	s, _, owner := setupListingService(t)
	ctx := context.Background()
	l, err := s.Create(ctx, owner, validInput())
	require.NoError(t, err)

	assert.ErrorIs(t, s.SoftDelete(ctx, uuid.New(), l.ID), ErrNotOwner)
	require.NoError(t, s.SoftDelete(ctx, owner, l.ID))

	got, err := s.Get(ctx, l.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
	require.NotNil(t, got.RejectionReason)

	mine, err := s.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestHardDelete_OwnerOrAdmin(t *testing.T) {
	s, _, owner := setupListingService(t)
	ctx := context.Background()
	a, err := s.Create(ctx, owner, validInput())
	require.NoError(t, err)
	b, err := s.Create(ctx, owner, validInput())
	require.NoError(t, err)
	require.NoError(t, s.DB.Create(&domain.Favorite{UserID: uuid.New(), ListingID: a.ID}).Error)

	assert.ErrorIs(t, s.HardDelete(ctx, uuid.New(), false, a.ID), ErrNotOwner)
	require.NoError(t, s.HardDelete(ctx, owner, false, a.ID))
	require.NoError(t, s.HardDelete(ctx, uuid.New(), true, b.ID))

	var favs int64
	s.DB.Model(&domain.Favorite{}).Count(&favs)
	assert.Zero(t, favs)
	_, err = s.Get(ctx, a.ID, owner, true)
	assert.ErrorIs(t, err, ErrListingNotFound)

	events, _ := s.Events(ctx, b.ID)
	assert.Equal(t, domain.EventDeleted, events[len(events)-1].EventType)
}

func TestListApproved_OnlyApproved(t *testing.T) {
	s, _, owner := setupListingService(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.Create(ctx, owner, validInput())
		require.NoError(t, err)
	}
	require.NoError(t, s.DB.Model(&domain.Listing{}).Where("id IN ?", []int64{1, 3}).Update("status", domain.StatusApproved).Error)

	out, err := s.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, l := range out {
		assert.Equal(t, domain.StatusApproved, l.Status)
	}
}
