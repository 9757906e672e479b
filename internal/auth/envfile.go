package auth

import (
	"fmt"
	"os"
	"regexp"

	"github.com/daryadaneshmand/Oura-data/pkg"
)

var ouraTokenLineRe = regexp.MustCompile(`(?m)^OURA_TOKEN=.*$`)

// SaveTokenToEnvFile writes the access token into the env file as
// OURA_TOKEN, replacing an existing line or appending one. A missing
// file is created.
func SaveTokenToEnvFile(path, token string) error {
	tokenLine := "OURA_TOKEN=" + token

	exists, err := pkg.PathExists(path, false)
	if err != nil {
		return fmt.Errorf("check env file: %w", err)
	}
	if !exists {
		return os.WriteFile(path, []byte(tokenLine+"\n"), 0o600)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read env file: %w", err)
	}

	if ouraTokenLineRe.Match(content) {
		content = ouraTokenLineRe.ReplaceAll(content, []byte(tokenLine))
	} else {
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content = append(content, '\n')
		}
		content = append(content, []byte(tokenLine+"\n")...)
	}

	return os.WriteFile(path, content, 0o600)
}
