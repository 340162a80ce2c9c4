// Package assets provides the résumé HTML templates and CSS styles.
//
// Two kinds of asset exist, Style (styles/{name}.css) and Template
// (templates/{name}.html). A Loader returns the content of one asset by
// kind and name:
//
//   - Embedded reads the built-in "default" template and the "default" and
//     "compact" styles compiled into the binary.
//   - Dir reads the same layout from a directory on disk.
//   - Layered asks each loader in turn and moves on only when an asset is
//     missing, so a directory may override a single built-in asset.
//
// Names never carry an extension or a path separator. Dir also refuses
// files whose resolved path leaves its root, which catches symlinks.
package assets
