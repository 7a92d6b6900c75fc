package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidOrder is returned for a reorder that is not a permutation of the
// listing's images.
var ErrInvalidOrder = errors.New("invalid image order")

// Image belongs to exactly one listing. Position defines display order and is
// kept as a contiguous 0-based sequence.
type Image struct {
	ImageID   int64  `json:"imageId"`
	ListingID int64  `json:"listingId,omitempty"`
	ImageURL  string `json:"imageUrl"`
	Position  int    `json:"position"`
}

// ImageFile is a staged upload: a file handle the multipart transport sends.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// NormalizePositions orders images by their current position (ties keep input
// order) and rewrites positions to 0..n-1. The input slice is not modified.
func NormalizePositions(images []Image) []Image {
	out := make([]Image, len(images))
	copy(out, images)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	for i := range out {
		out[i].Position = i
	}
	return out
}

// ReorderImages applies a complete drag-and-drop ordering given as image IDs.
// Every image must appear exactly once.
func ReorderImages(images []Image, orderedIDs []int64) ([]Image, error) {
	if len(orderedIDs) != len(images) {
		return nil, fmt.Errorf("%w: reorder lists %d images, listing has %d", ErrInvalidOrder, len(orderedIDs), len(images))
	}
	byID := make(map[int64]Image, len(images))
	for _, img := range images {
		byID[img.ImageID] = img
	}
	out := make([]Image, 0, len(images))
	seen := make(map[int64]bool, len(orderedIDs))
	for i, id := range orderedIDs {
		img, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: image %d does not belong to this listing", ErrInvalidOrder, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: image %d listed twice", ErrInvalidOrder, id)
		}
		seen[id] = true
		img.Position = i
		out = append(out, img)
	}
	return out, nil
}

// RemoveImage drops one image and closes the gap in positions.
func RemoveImage(images []Image, imageID int64) []Image {
	kept := make([]Image, 0, len(images))
	for _, img := range images {
		if img.ImageID != imageID {
			kept = append(kept, img)
		}
	}
	return NormalizePositions(kept)
}

// ImageIDs returns the IDs in display order.
func ImageIDs(images []Image) []int64 {
	ordered := NormalizePositions(images)
	ids := make([]int64, len(ordered))
	for i, img := range ordered {
		ids[i] = img.ImageID
	}
	return ids
}
