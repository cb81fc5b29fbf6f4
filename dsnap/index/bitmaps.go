package index

import (
	roaring "github.com/RoaringBitmap/roaring"
)

// extBitmaps holds one roaring bitmap of FileIDs per extension id.
// Example: ExtID of ".pdf" -> bitmap of every pdf's FileID.
type extBitmaps struct {
	ext map[uint32]*roaring.Bitmap
}

func newExtBitmaps() *extBitmaps {
	return &extBitmaps{ext: make(map[uint32]*roaring.Bitmap)}
}

func (eb *extBitmaps) add(extID uint32, id FileID) {
	bm, ok := eb.ext[extID]
	if !ok {
		bm = roaring.New()
		eb.ext[extID] = bm
	}
	bm.Add(uint32(id))
}

// union returns the combined FileID set of the given extension ids. Files
// carry exactly one extension, so multi-extension queries union rather than
// intersect.
func (eb *extBitmaps) union(extIDs ...uint32) *roaring.Bitmap {
	res := roaring.New()
	for _, id := range extIDs {
		if bm, ok := eb.ext[id]; ok {
			res.Or(bm)
		}
	}
	return res
}
