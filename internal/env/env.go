package env

import (
	"os"
	"path/filepath"
)

var Verbose bool = false
var ListenPort int = 0

// (default: %USERPROFILE%/.netdiag on Windows, $HOME/.netdiag on Linux)
var NetdiagDir string = GetNetdiagDir()

/**
 * Get netdiag directory path
 * @returns {string} Returns netdiag directory path
 */
func GetNetdiagDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".netdiag")
}
