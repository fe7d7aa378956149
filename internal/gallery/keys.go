package gallery

import "strings"

// Object keys follow images/group/{groupId}/filename/{imageName}.
const (
	rootPrefix  = "images/group/"
	imageFolder = "filename"
)

// GroupPrefix is the prefix holding every object of a group.
func GroupPrefix(groupID string) string {
	return rootPrefix + groupID + "/"
}

// ImagePrefix is the prefix holding a group's images.
func ImagePrefix(groupID string) string {
	return GroupPrefix(groupID) + imageFolder + "/"
}

// ImageKey is the object key of one image.
func ImageKey(groupID, fileName string) string {
	return ImagePrefix(groupID) + fileName
}

// ParseImageKey splits an image key into its group id and file name.
func ParseImageKey(key string) (groupID, fileName string, ok bool) {
	rest, found := strings.CutPrefix(key, rootPrefix)
	if !found {
		return "", "", false
	}
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] != imageFolder || !validFileName(parts[2]) {
		return "", "", false
	}
	return parts[0], parts[2], true
}

// GroupFromPath extracts the group id from a listing path such as
// "images/group/{id}/filename" (the form the browser sends) or "images/group/{id}/".
func GroupFromPath(path string) (string, bool) {
	rest, found := strings.CutPrefix(path, rootPrefix)
	if !found {
		return "", false
	}
	groupID, tail, _ := strings.Cut(rest, "/")
	if groupID == "" {
		return "", false
	}
	switch tail {
	case "", imageFolder, imageFolder + "/":
		return groupID, true
	}
	return "", false
}

func validFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}
