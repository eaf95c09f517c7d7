package utils

import "hash/fnv"

// Gentle handle vocabulary. Users are identified by an opaque id; the
// handle shown next to their posts and games is derived from it, so the
// same user always renders the same name on every node.
var (
	adjectives = []string{"Soft", "Calm", "Warm", "Gentle", "Quiet", "Happy", "Funny"}
	nouns      = []string{"Cloud", "River", "Fox", "Lantern", "Pine", "Forest", "Ocean", "Sheep"}
)

// DisplayName maps a user id to its stable pseudonymous handle.
func DisplayName(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	sum := h.Sum32()

	adj := adjectives[sum%uint32(len(adjectives))]
	noun := nouns[(sum/7)%uint32(len(nouns))]
	return adj + noun
}
