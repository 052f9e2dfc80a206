package config

func obfuscateSecret(secret string) string {
	if secret == "" {
		return "not set"
	}
	return "set"
}
