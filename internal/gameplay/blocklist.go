package gameplay

import (
	"fmt"
	"strings"

	"github.com/solspace/solspace-backend/internal/adapter"
)

// Blocklist defines the interface for banned identity lookups
type Blocklist interface {
	// IsBlocked checks if an identity may not submit game events
	IsBlocked(identity string) bool

	// Len returns the number of blocked identities
	Len() int
}

// BlocklistData represents the structure of the blocklist JSON file
type BlocklistData struct {
	Identities []string `json:"identities"`
}

type blocklist struct {
	identities map[string]struct{}
}

// NewBlocklist builds a blocklist from a list of identities
func NewBlocklist(identities []string) Blocklist {
	bl := &blocklist{identities: make(map[string]struct{}, len(identities))}
	for _, id := range identities {
		// identities are case-sensitive, only surrounding space is dropped
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		bl.identities[id] = struct{}{}
	}
	return bl
}

// LoadBlocklist loads the blocklist from a JSON file; an empty path yields an empty blocklist
func LoadBlocklist(fs adapter.FileSystem, jsonAdapter adapter.JSON, filePath string) (Blocklist, error) {
	if filePath == "" {
		return NewBlocklist(nil), nil
	}

	data, err := fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read blocklist file: %w", err)
	}

	var blocklistData BlocklistData
	if err := jsonAdapter.Unmarshal(data, &blocklistData); err != nil {
		return nil, fmt.Errorf("failed to parse blocklist JSON: %w", err)
	}

	return NewBlocklist(blocklistData.Identities), nil
}

func (b *blocklist) IsBlocked(identity string) bool {
	if b == nil {
		return false
	}
	_, ok := b.identities[identity]
	return ok
}

func (b *blocklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.identities)
}
