// /internal/skills/profanity_words.go
package skills

import (
	"regexp"
	"strings"
)

// letterVariants maps a letter to the lookalikes people use to dodge the
// filter. Letters without an entry stand for themselves.
var letterVariants = map[rune]string{
	'б': "б6",
}

func variantsOfLetter(letter rune) string {
	if v, ok := letterVariants[letter]; ok {
		return v
	}
	return string(letter)
}

// buildBadPhrase turns a space-separated word skeleton into a pattern.
// Each token lists the letters allowed at that position; tokens may be
// separated by any non-letter garbage inside the word.
func buildBadPhrase(skeleton string) string {
	const separator = `(?:[^а-я])*`

	var classes []string
	for _, token := range strings.Fields(skeleton) {
		var class strings.Builder
		for _, letter := range token {
			class.WriteString(variantsOfLetter(letter))
		}
		classes = append(classes, "["+class.String()+"]+")
	}
	return `[а-я]*(` + strings.Join(classes, separator) + `)[а-я]*`
}

// buildGoodPhrase is the strict variant: one exact letter class per
// position, no separators, no padding.
func buildGoodPhrase(skeleton string) string {
	var b strings.Builder
	b.WriteString("(")
	for _, token := range strings.Fields(skeleton) {
		b.WriteString("[" + token + "]")
	}
	b.WriteString(")")
	return b.String()
}

func buildBadWordsRe() *regexp.Regexp {
	phrases := []string{
		buildBadPhrase("п еи з д"),
		buildBadPhrase("х у йёуяиюе"),
		buildBadPhrase("о х у е втл"),
		buildBadPhrase("п и д оеа р"),
		buildBadPhrase("п и д р"),
		buildBadPhrase("её б а нклт"),
		buildBadPhrase("у её б оа нтк"),
		buildBadPhrase("её б л аои"),
		buildBadPhrase("в ы её б"),
		buildBadPhrase("е б ё т"),
		buildBadPhrase("св ъь еёи б"),
		buildBadPhrase("б л я"),
		buildBadPhrase("г оа в н"),
		buildBadPhrase("м у д а кч"),
		buildBadPhrase("г ао н д о н"),
		buildBadPhrase("ч м оы"),
		buildBadPhrase("д е р ь м"),
		buildBadPhrase("ж о п"),
		buildBadPhrase("ш л ю х"),
		buildBadPhrase("з ао л у п"),
		buildBadPhrase("м ао н д"),
		buildBadPhrase("с у ч а р"),
		buildBadPhrase("д ао л б ао её б"),
		buildBadPhrase("оа б оа с а тц"),
		buildBadPhrase("д р оа ч"),
	}
	return regexp.MustCompile(`(?i)` + strings.Join(phrases, "|"))
}

func buildGoodWordsRe() *regexp.Regexp {
	phrases := []string{
		buildGoodPhrase("х л е б а л оа"),
		buildGoodPhrase("с к и п и д а р"),
		buildGoodPhrase("к о л е б а н и яей"),
		buildGoodPhrase("з ао к оа л е б а лт"),
		buildGoodPhrase("р у б л я"),
		buildGoodPhrase("с т е б е л ь"),
		buildGoodPhrase("с т р а х о в к ауи"),
		`([о][с][к][о][р][б][л][я]([т][ь])*([л])*([е][ш][ь])*)`,
		`([в][л][ю][б][л][я](([т][ь])([с][я])*)*(([е][ш][ь])([с][я])*)*)`,
		`((([п][о][д])*([з][а])*([п][е][р][е])*)*[с][т][р][а][х][у]([й])*([с][я])*([е][ш][ь])*([е][т])*)`,
		`([м][е][б][е][л][ь]([н][ы][й])*)`,
		`([у][п][о][т][р][е][б][л][я]([т][ь])*([е][ш][ь])*([я])*([л])*)`,
		`([и][с][т][р][е][б][л][я]([т][ь])*([е][ш][ь])*([я])*([л])*)`,
		`([с][т][р][а][х]([а])*)`,
	}
	return regexp.MustCompile(`(?i)^(?:` + strings.Join(phrases, "|") + `)`)
}

// WordsFilter flags and masks obscene words while letting the known
// harmless lookalikes through.
type WordsFilter struct {
	bad  *regexp.Regexp
	good *regexp.Regexp
}

var wordsFilter = &WordsFilter{bad: buildBadWordsRe(), good: buildGoodWordsRe()}

func (f *WordsFilter) isGood(word string) bool {
	return f.good.MatchString(word)
}

// badSpans returns the byte spans of bad words, good lookalikes excluded.
func (f *WordsFilter) badSpans(text string) [][]int {
	var spans [][]int
	for _, span := range f.bad.FindAllStringIndex(text, -1) {
		if f.isGood(text[span[0]:span[1]]) {
			continue
		}
		spans = append(spans, span)
	}
	return spans
}

func (f *WordsFilter) HasBadWords(text string) bool {
	return len(f.badSpans(text)) > 0
}

// MaskBadWords replaces every bad span with asterisks, one per letter.
// Spans are applied back to front: masking shrinks the byte length of
// multibyte words, which would shift every span after it.
func (f *WordsFilter) MaskBadWords(text string) string {
	spans := f.badSpans(text)
	for i := len(spans) - 1; i >= 0; i-- {
		text = maskRange(text, spans[i][0], spans[i][1])
	}
	return text
}
