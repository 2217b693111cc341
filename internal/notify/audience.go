package notify

import "github.com/s21platform/notify-service/internal/model"

// ChatAudience computes the user ids affected by a chat row change.
//
// When both sides are present and the member sets are equal the change did
// not touch membership and nobody is notified. Otherwise the audience is the
// union of both sides: users present in both still get the event, an accepted
// over-notification.
func ChatAudience(oldChat, newChat *model.Chat) map[int64]struct{} {
	switch {
	case oldChat != nil && newChat != nil:
		oldSet := memberSet(oldChat.Members)
		newSet := memberSet(newChat.Members)
		if equalSets(oldSet, newSet) {
			return map[int64]struct{}{}
		}
		for id := range newSet {
			oldSet[id] = struct{}{}
		}
		return oldSet
	case oldChat != nil:
		return memberSet(oldChat.Members)
	case newChat != nil:
		return memberSet(newChat.Members)
	default:
		return map[int64]struct{}{}
	}
}

func memberSet(members []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(members))
	for _, id := range members {
		set[id] = struct{}{}
	}
	return set
}

func equalSets(a, b map[int64]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
