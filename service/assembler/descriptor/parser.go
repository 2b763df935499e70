// Package descriptor parses one line of recipe text into a feature record.
// Parsing is deliberately forgiving: a malformed line never produces an
// error, only best-effort defaults, so that one bad line cannot abort the
// assembly of a whole recipe.
package descriptor

import (
	"fmt"
	"hash/fnv"
	"log"
	"strings"

	"github.com/viant/parsly"

	"github.com/complyflow/complyflow/model/graph"
)

type span struct {
	start, end int
}

// Parse converts a non-blank recipe line into a feature. The command tag,
// quoted key="value" attributes and call-style key(value) attributes are
// recognized anywhere on the line; whatever cannot be parsed is left to the
// free-text fallback.
func Parse(line string) graph.Feature {
	feature := graph.Feature{
		Params: map[string]string{},
		Props:  map[string]string{},
	}

	raw := []byte(line)
	cursor := parsly.NewCursor("", raw, 0)
	var strip []span

	matched := cursor.MatchAfterOptional(whitespaceToken, tagToken)
	if matched.Code == tagToken.Code {
		text := matched.Text(cursor)
		feature.Cmd = canonicalCmd(text)
		strip = append(strip, span{cursor.Pos - len(text), cursor.Pos})
	} else {
		log.Printf("descriptor: no command tag recognized in line %q", line)
	}

	for cursor.Pos < cursor.InputSize {
		matched = cursor.MatchAny(quotedAttrToken, callAttrToken)
		switch matched.Code {
		case quotedAttrToken.Code:
			text := matched.Text(cursor)
			key, value := splitQuotedAttr(text)
			feature.Params[key] = value
			strip = append(strip, span{cursor.Pos - len(text), cursor.Pos})
		case callAttrToken.Code:
			text := matched.Text(cursor)
			key, value := splitCallAttr(text)
			feature.Props[key] = value
			strip = append(strip, span{cursor.Pos - len(text), cursor.Pos})
		default:
			cursor.Pos++
		}
	}

	feature.Text = deriveText(raw, strip, feature.Params)
	feature.ID = deriveID(feature)
	return feature
}

// canonicalCmd normalizes the three tag spellings to a bare lowercase
// keyword: "<step" and "step:" and "STEP" all yield "step".
func canonicalCmd(tag string) string {
	tag = strings.TrimPrefix(tag, "<")
	tag = strings.TrimSuffix(tag, ":")
	return strings.ToLower(tag)
}

// splitQuotedAttr splits `key="value"`; keys are lower-cased.
func splitQuotedAttr(text string) (string, string) {
	idx := strings.Index(text, "=")
	key := strings.ToLower(text[:idx])
	value := text[idx+2 : len(text)-1]
	return key, value
}

// splitCallAttr splits `key(value)`.
func splitCallAttr(text string) (string, string) {
	idx := strings.Index(text, "(")
	return text[:idx], text[idx+1 : len(text)-1]
}

// deriveText prefers an explicit prompt attribute, falls back to the line
// with the command tag and every recognized attribute removed, and finally
// to a fixed placeholder.
func deriveText(raw []byte, strip []span, params map[string]string) string {
	if prompt, ok := params["prompt"]; ok && strings.TrimSpace(prompt) != "" {
		return prompt
	}

	kept := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		stripped := false
		for _, s := range strip {
			if i >= s.start && i < s.end {
				stripped = true
				break
			}
		}
		if !stripped {
			kept = append(kept, raw[i])
		}
	}

	text := strings.TrimSpace(string(kept))
	text = strings.Trim(text, "<>")
	text = strings.TrimSpace(text)
	if text == "" {
		return graph.PlaceholderText
	}
	return text
}

// deriveID prefers an explicit id attribute and otherwise fingerprints the
// text so that re-parsing unchanged text keeps a stable id.
func deriveID(feature graph.Feature) string {
	if id, ok := feature.Params["id"]; ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	digest := fnv.New32a()
	_, _ = digest.Write([]byte(feature.Text))
	return fmt.Sprintf("%08x", digest.Sum32())
}
