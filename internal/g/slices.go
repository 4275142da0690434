package g

func ToStrings[T ~string](ts []T) []string {
	result := make([]string, 0, len(ts))
	for _, t := range ts {
		result = append(result, string(t))
	}
	return result
}
