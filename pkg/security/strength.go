package security

import "unicode"

// PasswordStrength buckets a password into weak, medium, or strong.
type PasswordStrength string

const (
	StrengthWeak   PasswordStrength = "weak"
	StrengthMedium PasswordStrength = "medium"
	StrengthStrong PasswordStrength = "strong"
)

// ScorePassword counts which of six character-class and length criteria the
// password satisfies: length of at least 8, length of at least 12, and the
// presence of lowercase, uppercase, digit, and special characters.
func ScorePassword(password string) int {
	score := 0
	if len(password) >= 8 {
		score++
	}
	if len(password) >= 12 {
		score++
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if hasLower {
		score++
	}
	if hasUpper {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSpecial {
		score++
	}
	return score
}

// ClassifyPassword maps a score to a strength bucket: 0-2 weak, 3-4 medium,
// 5-6 strong.
func ClassifyPassword(password string) PasswordStrength {
	switch score := ScorePassword(password); {
	case score <= 2:
		return StrengthWeak
	case score <= 4:
		return StrengthMedium
	default:
		return StrengthStrong
	}
}
