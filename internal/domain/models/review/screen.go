package review

import (
	"cmp"
	"slices"
	"time"
)

// Screen is one mockup in a project, with up to one image per device.
type Screen struct {
	ID           string    `json:"id" db:"id"`
	ProjectID    string    `json:"project_id" db:"project_id"`
	Name         string    `json:"name" db:"name"`
	SortOrder    int       `json:"sort_order" db:"sort_order"`
	DesktopImage *string   `json:"desktop_image" db:"desktop_image"`
	MobileImage  *string   `json:"mobile_image" db:"mobile_image"`
	DesktopLabel *string   `json:"desktop_label" db:"desktop_label"`
	MobileLabel  *string   `json:"mobile_label" db:"mobile_label"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Image returns the image URL attached for the device, if any.
func (s *Screen) Image(d Device) *string {
	switch d {
	case DeviceDesktop:
		return s.DesktopImage
	case DeviceMobile:
		return s.MobileImage
	}
	return nil
}

// SetImage replaces the image URL for the device. nil clears it.
func (s *Screen) SetImage(d Device, url *string) {
	switch d {
	case DeviceDesktop:
		s.DesktopImage = url
	case DeviceMobile:
		s.MobileImage = url
	}
}

// Label returns the per-device caption, if any.
func (s *Screen) Label(d Device) *string {
	switch d {
	case DeviceDesktop:
		return s.DesktopLabel
	case DeviceMobile:
		return s.MobileLabel
	}
	return nil
}

// SetLabel replaces the per-device caption. nil clears it.
func (s *Screen) SetLabel(d Device, label *string) {
	switch d {
	case DeviceDesktop:
		s.DesktopLabel = label
	case DeviceMobile:
		s.MobileLabel = label
	}
}

// SortScreens orders screens by sort_order, breaking ties (left behind by
// concurrent reorders) by creation time and then id.
func SortScreens(screens []Screen) {
	slices.SortStableFunc(screens, func(a, b Screen) int {
		if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
