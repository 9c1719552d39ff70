package gitprocess

// Classify maps an exit code and stderr text to an ErrorKind.
//
// It returns "" for exit code zero regardless of stderr. Otherwise the first
// rule admitting the exit code whose pattern occurs in stderr decides the
// kind; KindUnclassified is returned when none does.
func Classify(exitCode int, stderr string) ErrorKind {
	if exitCode == 0 {
		return ""
	}
	for _, rule := range rules {
		if rule.Matches(exitCode, stderr) {
			return rule.Kind
		}
	}
	return KindUnclassified
}

// ParseError looks up the kind for stderr text without considering the exit
// code. It reports false when no pattern matches.
func ParseError(stderr string) (ErrorKind, bool) {
	for _, rule := range rules {
		if rule.Pattern.MatchString(stderr) {
			return rule.Kind, true
		}
	}
	return "", false
}
