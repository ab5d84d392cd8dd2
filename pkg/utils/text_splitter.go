package utils

// SplitText splits a long string into chunks of at most chunkSize characters,
// with an overlap between consecutive chunks to preserve context at the
// boundaries. Chunks prefer to end on whitespace so words are not cut in half;
// the scan window for a break point is the last tenth of the chunk.
func SplitText(text string, chunkSize int, overlap int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	total := len(runes)
	if total <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	boundaryScan := chunkSize / 10

	var chunks []string
	start := 0
	for start < total {
		end := start + chunkSize
		if end >= total {
			chunks = append(chunks, string(runes[start:total]))
			break
		}

		cut := end
		for i := end; i > end-boundaryScan && i > start+1; i-- {
			if runes[i-1] == ' ' || runes[i-1] == '\n' {
				cut = i
				break
			}
		}

		chunks = append(chunks, string(runes[start:cut]))

		next := cut - overlap
		if next <= start {
			next = start + step
		}
		start = next
	}

	return chunks
}
