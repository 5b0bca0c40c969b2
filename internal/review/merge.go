package review

import "github.com/openguard/openguard/internal/core"

// MergeCorrections combines the model's corrected files with the original
// file set. The output always contains exactly one entry per original file,
// in the original order: corrected content where the model returned a
// replacement, original content otherwise. Corrected entries for files
// outside the original set are ignored, and when the model emits the same
// filename twice the last write wins.
func MergeCorrections(corrected []core.ModelFile, originals []core.SourceFile) []core.CorrectedFile {
	byName := make(map[string]string, len(corrected))
	for _, f := range corrected {
		byName[f.Filename] = f.Content
	}

	out := make([]core.CorrectedFile, 0, len(originals))
	for _, f := range originals {
		content := f.Content
		if replacement, ok := byName[f.Filename]; ok {
			content = replacement
		}
		out = append(out, core.CorrectedFile{Filename: f.Filename, Content: content})
	}
	return out
}
