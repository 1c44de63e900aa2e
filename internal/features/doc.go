// Package features holds process-wide flags that change engine behavior
// without new options: animations_disabled, strict_diagnostics and
// hover_grace_area. A flag resolves from CLI overrides, then the config
// file, then its compiled-in default.
package features
