package review

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"mockreview/internal/config"
	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
	reviewSvc "mockreview/internal/domain/services/review"
	"mockreview/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateScreenAppendsToOrder(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	_, screens := env.seedProject(t, "Home", "Pricing", "About")

	for i, sc := range screens {
		assert.Equal(t, i, sc.SortOrder, sc.Name)
	}

	_, err := env.screenSvc.CreateScreen(context.Background(), &reviewSvc.CreateScreenRequest{
		ProjectID: "00000000-0000-0000-0000-000000000000",
		Name:      "Orphan",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateScreenValidation(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, _ := env.seedProject(t)

	tests := []struct {
		name string
		req  reviewSvc.CreateScreenRequest
	}{
		{"blank name", reviewSvc.CreateScreenRequest{ProjectID: project.ID, Name: "   "}},
		{"missing project", reviewSvc.CreateScreenRequest{Name: "Home"}},
		{"name too long", reviewSvc.CreateScreenRequest{ProjectID: project.ID, Name: strings.Repeat("x", 256)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.screenSvc.CreateScreen(context.Background(), &tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestReorderPricingUp(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, screens := env.seedProject(t, "Home", "Pricing")
	require.Equal(t, 0, screens[0].SortOrder)
	require.Equal(t, 1, screens[1].SortOrder)

	ordered, err := env.screenSvc.ReorderScreen(context.Background(), screens[1].ID, reviewSvc.DirectionUp)
	require.NoError(t, err)

	assert.Equal(t, []string{"Pricing", "Home"}, names(ordered))
	assert.Equal(t, map[string]int{"Home": 1, "Pricing": 0}, env.orderOf(t, project.ID))
	assert.Equal(t, 2, env.screens.writes())
}

func TestReorderAtBoundaryWritesNothing(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, screens := env.seedProject(t, "Home", "Pricing", "About")
	before := env.orderOf(t, project.ID)

	ordered, err := env.screenSvc.ReorderScreen(context.Background(), screens[0].ID, reviewSvc.DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, []string{"Home", "Pricing", "About"}, names(ordered))

	_, err = env.screenSvc.ReorderScreen(context.Background(), screens[2].ID, reviewSvc.DirectionDown)
	require.NoError(t, err)

	assert.Zero(t, env.screens.writes())
	assert.Equal(t, before, env.orderOf(t, project.ID))
}

func TestReorderKeepsPermutation(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, screens := env.seedProject(t, "A", "B", "C", "D", "E")
	rng := rand.New(rand.NewPCG(1, 2))

	for range 40 {
		sc := screens[rng.IntN(len(screens))]
		dir := reviewSvc.DirectionUp
		if rng.IntN(2) == 1 {
			dir = reviewSvc.DirectionDown
		}
		_, err := env.screenSvc.ReorderScreen(context.Background(), sc.ID, dir)
		require.NoError(t, err)

		orders := make([]int, 0, len(screens))
		for _, o := range env.orderOf(t, project.ID) {
			orders = append(orders, o)
		}
		slices.Sort(orders)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, orders)
	}
}

// An interruption between the two writes leaves a duplicate sort_order in
// a store without transactions. Listing still returns every screen in a
// deterministic order.
func TestReorderInterruptedLeavesDuplicateOrder(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, screens := env.seedProject(t, "Home", "Pricing", "About")
	env.screens.failOn = 2

	_, err := env.screenSvc.ReorderScreen(context.Background(), screens[1].ID, reviewSvc.DirectionUp)
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, map[string]int{"Home": 0, "Pricing": 0, "About": 2}, env.orderOf(t, project.ID))

	listed, err := env.screenSvc.ListScreens(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Home", "Pricing", "About"}, names(listed))

	// A corrective reorder restores a permutation
	env.screens.failOn = 0
	_, err = env.screenSvc.ReorderScreen(context.Background(), screens[1].ID, reviewSvc.DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Home": 1, "Pricing": 0, "About": 2}, env.orderOf(t, project.ID))
}

func TestReorderUnknownDirection(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	_, screens := env.seedProject(t, "Home", "Pricing")

	_, err := env.screenSvc.ReorderScreen(context.Background(), screens[0].ID, reviewSvc.Direction("sideways"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, env.screens.writes())
}

func TestAttachImage(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, screens := env.seedProject(t, "Home")
	ctx := context.Background()
	home := screens[0]

	url, err := env.screenSvc.AttachImage(ctx, &reviewSvc.AttachImageRequest{
		ScreenID: home.ID,
		Device:   models.DeviceDesktop,
		Filename: "Home.PNG",
		Body:     strings.NewReader("v1"),
	})
	require.NoError(t, err)

	key := project.ID + "/" + home.ID + "/desktop.png"
	assert.Equal(t, testBlobBase+key, url)
	assert.True(t, env.blobs.has(key))

	stored, err := env.screenSvc.GetScreen(ctx, home.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DesktopImage)
	assert.Equal(t, url, *stored.DesktopImage)
	assert.Nil(t, stored.MobileImage)

	// A new extension replaces the field and drops the old object
	url2, err := env.screenSvc.AttachImage(ctx, &reviewSvc.AttachImageRequest{
		ScreenID: home.ID,
		Device:   models.DeviceDesktop,
		Filename: "home.webp",
		Body:     strings.NewReader("v2"),
	})
	require.NoError(t, err)
	assert.Equal(t, testBlobBase+project.ID+"/"+home.ID+"/desktop.webp", url2)
	assert.False(t, env.blobs.has(key))
}

func TestAttachImageDefaultsToPNG(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, screens := env.seedProject(t, "Home")

	url, err := env.screenSvc.AttachImage(context.Background(), &reviewSvc.AttachImageRequest{
		ScreenID: screens[0].ID,
		Device:   models.DeviceMobile,
		Filename: "capture",
		Body:     strings.NewReader("img"),
	})
	require.NoError(t, err)
	assert.Equal(t, testBlobBase+project.ID+"/"+screens[0].ID+"/mobile.png", url)
}

func TestAttachImageRejectsInput(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	_, screens := env.seedProject(t, "Home")

	tests := []struct {
		name string
		req  reviewSvc.AttachImageRequest
	}{
		{"unknown device", reviewSvc.AttachImageRequest{ScreenID: screens[0].ID, Device: "tablet", Filename: "a.png", Body: strings.NewReader("x")}},
		{"unsupported type", reviewSvc.AttachImageRequest{ScreenID: screens[0].ID, Device: models.DeviceDesktop, Filename: "a.exe", Body: strings.NewReader("x")}},
		{"no body", reviewSvc.AttachImageRequest{ScreenID: screens[0].ID, Device: models.DeviceDesktop, Filename: "a.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.screenSvc.AttachImage(context.Background(), &tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAttachImageEnforcesSizeLimit(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, screens := env.seedProject(t, "Home")
	ctx := context.Background()
	home := screens[0]

	_, err := env.screenSvc.AttachImage(ctx, &reviewSvc.AttachImageRequest{
		ScreenID: home.ID,
		Device:   models.DeviceDesktop,
		Filename: "big.png",
		Body:     bytes.NewReader(make([]byte, config.MaxImageUploadBytes+512<<10)),
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	key := project.ID + "/" + home.ID + "/desktop.png"
	assert.False(t, env.blobs.has(key))
	stored, err := env.screenSvc.GetScreen(ctx, home.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DesktopImage)

	_, err = env.screenSvc.AttachImage(ctx, &reviewSvc.AttachImageRequest{
		ScreenID: home.ID,
		Device:   models.DeviceDesktop,
		Filename: "exact.png",
		Body:     bytes.NewReader(make([]byte, config.MaxImageUploadBytes)),
	})
	require.NoError(t, err)
	env.blobs.mu.Lock()
	assert.Len(t, env.blobs.objects[key], config.MaxImageUploadBytes)
	env.blobs.mu.Unlock()
}

func TestDetachImageSurvivesBlobFailure(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	_, screens := env.seedProject(t, "Home")
	ctx := context.Background()

	_, err := env.screenSvc.AttachImage(ctx, &reviewSvc.AttachImageRequest{
		ScreenID: screens[0].ID,
		Device:   models.DeviceMobile,
		Filename: "m.jpg",
		Body:     strings.NewReader("img"),
	})
	require.NoError(t, err)

	env.blobs.deleteErr = errors.New("storage down")
	screen, err := env.screenSvc.DetachImage(ctx, screens[0].ID, models.DeviceMobile)
	require.NoError(t, err)
	assert.Nil(t, screen.MobileImage)

	stored, err := env.screenSvc.GetScreen(ctx, screens[0].ID)
	require.NoError(t, err)
	assert.Nil(t, stored.MobileImage)
}

func TestRemoveScreen(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, screens := env.seedProject(t, "Home", "Pricing", "About")
	ctx := context.Background()

	_, err := env.screenSvc.AttachImage(ctx, &reviewSvc.AttachImageRequest{
		ScreenID: screens[0].ID,
		Device:   models.DeviceDesktop,
		Filename: "home.png",
		Body:     strings.NewReader("img"),
	})
	require.NoError(t, err)

	env.blobs.deleteErr = errors.New("storage down")
	require.NoError(t, env.screenSvc.RemoveScreen(ctx, screens[0].ID))

	_, err = env.screenSvc.GetScreen(ctx, screens[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, map[string]int{"Pricing": 0, "About": 1}, env.orderOf(t, project.ID))

	// Appending after removal continues the dense order
	sc, err := env.screenSvc.CreateScreen(ctx, &reviewSvc.CreateScreenRequest{ProjectID: project.ID, Name: "Contact"})
	require.NoError(t, err)
	assert.Equal(t, 2, sc.SortOrder)
}

func TestSetLabel(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	_, screens := env.seedProject(t, "Home")
	ctx := context.Background()

	label := "  Logged out  "
	screen, err := env.screenSvc.SetLabel(ctx, screens[0].ID, models.DeviceDesktop, &label)
	require.NoError(t, err)
	require.NotNil(t, screen.DesktopLabel)
	assert.Equal(t, "Logged out", *screen.DesktopLabel)
	assert.Nil(t, screen.MobileLabel)
	assert.Equal(t, 0, screen.SortOrder)

	blank := " "
	screen, err = env.screenSvc.SetLabel(ctx, screens[0].ID, models.DeviceDesktop, &blank)
	require.NoError(t, err)
	assert.Nil(t, screen.DesktopLabel)
}

func TestRenameScreen(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	_, screens := env.seedProject(t, "Home", "Pricing")

	screen, err := env.screenSvc.RenameScreen(context.Background(), screens[1].ID, &reviewSvc.RenameScreenRequest{Name: " Plans "})
	require.NoError(t, err)
	assert.Equal(t, "Plans", screen.Name)
	assert.Equal(t, 1, screen.SortOrder)
	assert.Zero(t, env.screens.writes())
}
