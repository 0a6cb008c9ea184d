package onnx

// COCOClasses is the 80-class COCO catalog in model output order. YOLO
// exports emit class indices into this list.
var COCOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat", "traffic light",
	"fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse", "sheep", "cow",
	"elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie", "suitcase", "frisbee",
	"skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove", "skateboard", "surfboard",
	"tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair", "couch",
	"potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse", "remote", "keyboard", "cell phone",
	"microwave", "oven", "toaster", "sink", "refrigerator", "book", "clock", "vase", "scissors", "teddy bear",
	"hair drier", "toothbrush",
}

// ClassIndices maps class names to their indices in the catalog, skipping
// names the catalog does not contain.
func ClassIndices(labels []string, names []string) []int {
	byName := make(map[string]int, len(labels))
	for i, l := range labels {
		byName[l] = i
	}
	out := make([]int, 0, len(names))
	for _, n := range names {
		if i, ok := byName[n]; ok {
			out = append(out, i)
		}
	}
	return out
}
