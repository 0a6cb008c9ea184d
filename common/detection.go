package common

// NoTrackingID marks a detection whose source capability does not track
// identity across frames.
const NoTrackingID = -1

// Detection is a labeled, scored region of interest. Box is expressed in
// the coordinate space of the frame that produced the detection; the
// overlay's coordinate mapper converts it to container space.
//
// One frame's detections fully replace the previous frame's set. TrackingID
// is carried through from the face capability but never interpreted by the
// pipeline.
type Detection struct {
	Label      string
	Confidence float32 // in [0,1]
	Box        BoundingBox
	TrackingID int
}
