package lib

// AppendImages appends uploaded URLs after the existing ones, keeping order.
// max > 0 caps how many uploads are appended; existing entries are always kept,
// even when they already exceed the cap.
func AppendImages(images, uploaded []string, max int) []string {
	out := make([]string, 0, len(images)+len(uploaded))
	out = append(out, images...)

	if max > 0 {
		room := max - len(images)
		if room <= 0 {
			return out
		}
		if len(uploaded) > room {
			uploaded = uploaded[:room]
		}
	}
	return append(out, uploaded...)
}

// RemoveImage returns the list without the entry at index. An out-of-range
// index leaves the list unchanged. The stored object is never deleted.
func RemoveImage(images []string, index int) []string {
	out := make([]string, 0, len(images))
	if index < 0 || index >= len(images) {
		return append(out, images...)
	}

	out = append(out, images[:index]...)
	return append(out, images[index+1:]...)
}
