package ledger

import "strings"

const uploadsPrefix = "uploads/"

// UploadPath is a parsed object path of the form uploads/groups/<groupId>/...
type UploadPath struct {
	GroupID string
}

// ParseUploadPath matches objectPath against the upload grammar. ok is false
// when the path is outside the uploads tree, has no "groups" segment, or the
// "groups" segment is the last one.
func ParseUploadPath(objectPath string) (UploadPath, bool) {
	if !strings.HasPrefix(objectPath, uploadsPrefix) {
		return UploadPath{}, false
	}
	segments := strings.Split(objectPath, "/")
	for i, segment := range segments {
		if segment == "groups" && i+1 < len(segments) {
			if segments[i+1] == "" {
				return UploadPath{}, false
			}
			return UploadPath{GroupID: segments[i+1]}, true
		}
	}
	return UploadPath{}, false
}
