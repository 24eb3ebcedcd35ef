package importer

// ShouldArchive decides whether a saved article is archived in Omnivore.
//
// By default the Pocket archive state is mirrored. In unread-untagged mode
// archived bookmarks without tags are imported as unread so they can be
// triaged again.
func ShouldArchive(status string, hasTags, unreadUntagged bool) bool {
	if status != StatusArchive {
		return false
	}
	if !unreadUntagged {
		return true
	}
	return hasTags
}
