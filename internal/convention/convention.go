// Package convention parses the course filename grammars into structured fields.
//
// Every grammar is matched against the bare file name (extension removed) and
// is anchored at the start only: trailing text after a complete match is
// ignored, as the existing content library relies on it.
package convention

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ID names one filename convention.
type ID string

const (
	SAI            ID = "sai"             // SAI-<title>-Part<N>-<person>
	TPV            ID = "tpv"             // <title>_Part_<N>_<ALBUM>_MANDARIN_BLUEPRINT
	Sentence       ID = "sentence"        // L<level> All Sentences Combined
	ParagraphAudio ID = "paragraph-audio" // AUDIO - <title> - <Gender> (<Speed>)
	ParagraphVideo ID = "paragraph-video" // VIDEO <GENDER> - <title>
	TitleInfo      ID = "title-info"      // TITLE INFO - <title> - Paragraph <N>
)

// ErrNoMatch is returned when a name does not follow the requested convention.
var ErrNoMatch = errors.New("name does not match convention")

// Match holds the fields extracted from one file name.
type Match struct {
	Convention ID
	Title      string // cleaned title, literal pattern (Sentence) or matched English title (paragraphs)
	Part       string // part number (SAI, TPV) or paragraph number (TitleInfo)
	Person     string // SAI speaker
	Album      string // TPV album code
	Gender     string // token as written in the file name
	Speed      string // token as written in the file name
}

// Params carries the context some conventions need to build their grammar.
type Params struct {
	Level         string   // Sentence: level number from the enclosing PathContext
	EnglishTitles []string // paragraphs: candidates tried in order
}

// Album codes accepted by the TPV convention.
const (
	AlbumImmersion = "IMMERSION"
	AlbumLLR       = "LLR"
	AlbumTAP       = "TAP"
)

const sentenceSuffix = "All Sentences Combined"

var (
	saiPartRe   = regexp.MustCompile(`^SAI-(.+?)-Part(\d+)-(.*)`)
	saiPlainRe  = regexp.MustCompile(`^SAI-(.+?)-(.+)`)
	tpvPartRe   = regexp.MustCompile(`^(.+?)_Part_(\d+)_(IMMERSION|LLR|TAP)_MANDARIN_BLUEPRINT`)
	tpvPlainRe  = regexp.MustCompile(`^(.+?)_(IMMERSION|LLR|TAP)_MANDARIN_BLUEPRINT`)
	infoParaRe  = regexp.MustCompile(`^TITLE INFO - (.*) - Paragraph (\d+)`)
	infoPlainRe = regexp.MustCompile(`^TITLE INFO - (.*)`)
)

// Parse matches base against the grammar of the given convention.
func Parse(id ID, base string, p Params) (Match, error) {
	base = norm.NFC.String(base)

	switch id {
	case SAI:
		return parseSAI(base)
	case TPV:
		return parseTPV(base)
	case Sentence:
		return parseSentence(base, p.Level)
	case ParagraphAudio:
		return parseParagraphAudio(base, p.EnglishTitles)
	case ParagraphVideo:
		return parseParagraphVideo(base, p.EnglishTitles)
	case TitleInfo:
		return parseTitleInfo(base)
	}
	return Match{}, fmt.Errorf("unknown convention %q", id)
}

// Candidate reports whether base looks like it belongs to the convention at
// all. Names failing this check never enter reconciliation; names passing it
// but failing Parse are reported as unmatched.
func Candidate(id ID, base string) bool {
	base = norm.NFC.String(base)

	switch id {
	case SAI:
		return strings.HasPrefix(base, "SAI-")
	case TPV:
		return strings.Contains(base, "_MANDARIN_BLUEPRINT")
	case Sentence:
		return strings.Contains(base, sentenceSuffix)
	case ParagraphAudio:
		return strings.HasPrefix(base, "AUDIO - ")
	case ParagraphVideo:
		return strings.HasPrefix(base, "VIDEO ")
	case TitleInfo:
		return strings.HasPrefix(base, "TITLE INFO - ")
	}
	return false
}

// Pattern describes the grammar in human terms, for skip logs.
func Pattern(id ID, p Params) string {
	switch id {
	case SAI:
		return "SAI-<title>[-Part<N>]-<person>"
	case TPV:
		return "<title>[_Part_<N>]_<IMMERSION|LLR|TAP>_MANDARIN_BLUEPRINT"
	case Sentence:
		return SentenceTitle(p.Level)
	case ParagraphAudio:
		return "AUDIO - <" + strings.Join(p.EnglishTitles, "|") + "> - <Male|Female> (<Slower|Native Speed>)"
	case ParagraphVideo:
		return "VIDEO <MALE|FEMALE> - <" + strings.Join(p.EnglishTitles, "|") + ">"
	case TitleInfo:
		return "TITLE INFO - <title>[ - Paragraph <N>]"
	}
	return string(id)
}

// SentenceTitle is the literal name expected for a level's combined sentences.
func SentenceTitle(level string) string {
	return "L" + level + " " + sentenceSuffix
}

// CleanTitle turns an underscore separated title into words.
func CleanTitle(raw string) string {
	return strings.ReplaceAll(raw, "_", " ")
}

func parseSAI(base string) (Match, error) {
	if m := saiPartRe.FindStringSubmatch(base); m != nil {
		return Match{Convention: SAI, Title: CleanTitle(m[1]), Part: m[2], Person: m[3]}, nil
	}
	if m := saiPlainRe.FindStringSubmatch(base); m != nil {
		return Match{Convention: SAI, Title: CleanTitle(m[1]), Part: "1", Person: m[2]}, nil
	}
	return Match{}, ErrNoMatch
}

func parseTPV(base string) (Match, error) {
	if m := tpvPartRe.FindStringSubmatch(base); m != nil {
		return Match{Convention: TPV, Title: CleanTitle(m[1]), Part: m[2], Album: m[3]}, nil
	}
	if m := tpvPlainRe.FindStringSubmatch(base); m != nil {
		return Match{Convention: TPV, Title: CleanTitle(m[1]), Part: "1", Album: m[2]}, nil
	}
	return Match{}, ErrNoMatch
}

func parseSentence(base, level string) (Match, error) {
	if level == "" {
		return Match{}, ErrNoMatch
	}
	title := SentenceTitle(level)
	if !strings.HasPrefix(base, title) {
		return Match{}, ErrNoMatch
	}
	return Match{Convention: Sentence, Title: title}, nil
}

func parseParagraphAudio(base string, titles []string) (Match, error) {
	for _, title := range titles {
		re, err := regexp.Compile(`^AUDIO - ` + regexp.QuoteMeta(title) + ` - (Male|Female) \((Slower|Native Speed)\)`)
		if err != nil {
			return Match{}, err
		}
		if m := re.FindStringSubmatch(base); m != nil {
			return Match{Convention: ParagraphAudio, Title: title, Gender: m[1], Speed: m[2]}, nil
		}
	}
	return Match{}, ErrNoMatch
}

func parseParagraphVideo(base string, titles []string) (Match, error) {
	for _, title := range titles {
		re, err := regexp.Compile(`^VIDEO (MALE|FEMALE) - ` + regexp.QuoteMeta(title))
		if err != nil {
			return Match{}, err
		}
		if m := re.FindStringSubmatch(base); m != nil {
			return Match{Convention: ParagraphVideo, Title: title, Gender: m[1]}, nil
		}
	}
	return Match{}, ErrNoMatch
}

func parseTitleInfo(base string) (Match, error) {
	if m := infoParaRe.FindStringSubmatch(base); m != nil {
		return Match{Convention: TitleInfo, Title: m[1], Part: m[2]}, nil
	}
	if m := infoPlainRe.FindStringSubmatch(base); m != nil {
		return Match{Convention: TitleInfo, Title: m[1], Part: "0"}, nil
	}
	return Match{}, ErrNoMatch
}
