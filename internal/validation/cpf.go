package validation

// OnlyDigits strips everything but 0-9.
func OnlyDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// ValidCPF verifies length and both check digits. Sequences of a single
// repeated digit pass the checksum but are never issued.
func ValidCPF(document string) bool {
	d := OnlyDigits(document)
	if len(d) != 11 {
		return false
	}
	same := true
	for i := 1; i < 11; i++ {
		if d[i] != d[0] {
			same = false
			break
		}
	}
	if same {
		return false
	}
	return cpfDigit(d[:9], 10) == int(d[9]-'0') && cpfDigit(d[:10], 11) == int(d[10]-'0')
}

func cpfDigit(digits string, weight int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (weight - i)
	}
	r := (sum * 10) % 11
	if r == 10 {
		return 0
	}
	return r
}
