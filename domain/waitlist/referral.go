package waitlist

// ReferralSource is the closed set of accepted answers to "how did you hear
// about us?". Anything outside this set is rejected at validation time.
type ReferralSource string

const (
	ReferralInstagram   ReferralSource = "instagram"
	ReferralTikTok      ReferralSource = "tiktok"
	ReferralLinkedIn    ReferralSource = "linkedin"
	ReferralX           ReferralSource = "x"
	ReferralWordOfMouth ReferralSource = "word_of_mouth"
	ReferralOther       ReferralSource = "other"
)

// ReferralSources returns the accepted values in display order.
func ReferralSources() []ReferralSource {
	return []ReferralSource{
		ReferralInstagram,
		ReferralTikTok,
		ReferralLinkedIn,
		ReferralX,
		ReferralWordOfMouth,
		ReferralOther,
	}
}

// ParseReferralSource reports whether s names a known referral source.
func ParseReferralSource(s string) (ReferralSource, bool) {
	for _, source := range ReferralSources() {
		if string(source) == s {
			return source, true
		}
	}

	return "", false
}
