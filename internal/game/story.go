package game

import "slices"

// MarkChapterRead records an unlocked chapter as read. Reading twice is a no-op.
func (gm *GameManager) MarkChapterRead(chapterID int) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	story := &gm.state.Story
	if !slices.Contains(story.UnlockedChapters, chapterID) {
		return ErrChapterLocked
	}
	if slices.Contains(story.ReadChapters, chapterID) {
		return nil
	}
	story.ReadChapters = append(story.ReadChapters, chapterID)
	return gm.saveState()
}

// UnreadChapters returns unlocked chapters not yet read, in unlock order
func (gm *GameManager) UnreadChapters() []int {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	var out []int
	for _, id := range gm.state.Story.UnlockedChapters {
		if !slices.Contains(gm.state.Story.ReadChapters, id) {
			out = append(out, id)
		}
	}
	return out
}
