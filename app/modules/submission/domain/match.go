package submissiondomain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// TrackInfo identifies a song as submitted from the player's search results.
type TrackInfo struct {
	TrackID       string   `json:"trackId"`
	Title         string   `json:"title"`
	Artists       []string `json:"artists"`
	AlbumName     string   `json:"albumName"`
	AlbumImageURL string   `json:"albumImageUrl"`
}

// MatchReason classifies how strongly a candidate track duplicates an
// existing submission. Reasons rank EXACT > TITLE_AND_ARTIST > ARTIST.
type MatchReason string

const (
	MatchExact          MatchReason = "EXACT_MATCH"
	MatchTitleAndArtist MatchReason = "TITLE_AND_ARTIST_MATCH"
	MatchArtist         MatchReason = "ARTIST_MATCH"
)

// Blocking reports whether the reason always rejects the submission. Weaker
// matches can be overridden with an explicit force flag.
func (r MatchReason) Blocking() bool {
	return r == MatchExact
}

// ExistingSubmission pairs a previously submitted track with its owner.
type ExistingSubmission struct {
	UserID uuid.UUID
	Track  TrackInfo
}

// Match is a positive duplicate classification against one existing
// submission.
type Match struct {
	Reason MatchReason
	UserID uuid.UUID
	Track  TrackInfo
}

// ClassifyMatches compares a candidate track against a round's existing
// submissions and returns one Match per duplicate found, in submission order.
// Per existing submission, the first rule that applies wins:
//
//  1. EXACT_MATCH: identical track ids, or identical raw titles with at least
//     one overlapping artist.
//  2. TITLE_AND_ARTIST_MATCH: simplified titles match with at least one
//     overlapping artist.
//  3. ARTIST_MATCH: at least one overlapping artist.
//
// A same-title track with zero overlapping artists is not a match at all.
func ClassifyMatches(candidate TrackInfo, existing []ExistingSubmission) []Match {
	var matches []Match
	for _, sub := range existing {
		reason, ok := classify(candidate, sub.Track)
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Reason: reason,
			UserID: sub.UserID,
			Track:  sub.Track,
		})
	}
	return matches
}

func classify(candidate, existing TrackInfo) (MatchReason, bool) {
	if candidate.TrackID != "" && candidate.TrackID == existing.TrackID {
		return MatchExact, true
	}

	overlap := artistsOverlap(candidate.Artists, existing.Artists)

	if candidate.Title == existing.Title && overlap {
		return MatchExact, true
	}
	if SimplifyTitle(candidate.Title) == SimplifyTitle(existing.Title) && overlap {
		return MatchTitleAndArtist, true
	}
	if overlap {
		return MatchArtist, true
	}
	return "", false
}

func artistsOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(y)) {
				return true
			}
		}
	}
	return false
}

// titleQualifiers strips the usual release-variant noise from a track title.
// Order matters: feat clauses go before the generic parenthetical strip so a
// "(feat. X)" is not left half-eaten by a nested bracket.
var titleQualifiers = []*regexp.Regexp{
	regexp.MustCompile(`\s*[(\[]\s*feat\.?[^)\]]*[)\]]`),
	regexp.MustCompile(`\s+feat\.?\s+.*$`),
	regexp.MustCompile(`\s*\([^)]*\)`),
	regexp.MustCompile(`\s*\[[^\]]*\]`),
	regexp.MustCompile(`\s*-\s*(\d{4}\s+)?(remaster(ed)?|remix(ed)?|live|acoustic|mono|stereo|deluxe|single|radio|demo)\b.*$`),
	regexp.MustCompile(`\s*-\s*.*\b(remaster(ed)?|remix|version|edit(ion)?|mix)\b.*$`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SimplifyTitle lower-cases a title and strips remaster/remix/live/acoustic
// qualifiers, feat clauses, and parenthetical or bracketed suffixes, then
// collapses whitespace. "Song (Live)" and "Song - 2011 Remaster" both
// simplify to "song".
func SimplifyTitle(title string) string {
	simplified := strings.ToLower(title)
	for _, re := range titleQualifiers {
		simplified = re.ReplaceAllString(simplified, "")
	}
	simplified = whitespaceRun.ReplaceAllString(simplified, " ")
	return strings.TrimSpace(simplified)
}
