package pkg

import "errors"

var (
	// Verification errors 🔍
	ErrVerificationFailed = errors.New("❌ bundle verification failed")
	ErrAppFolderMissing   = errors.New("❌ app folder missing")
	ErrLauncherMissing    = errors.New("❌ launcher missing")
	ErrLauncherNot64Bit   = errors.New("❌ launcher is not a 64-bit executable")
	ErrLauncherNotExec    = errors.New("❌ launcher is not executable")
	ErrRuntimeInvalid     = errors.New("❌ bundled runtime missing or not 64-bit")
)
