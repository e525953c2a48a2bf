// Package paths provides path resolution helpers for deploytool: XDG config
// locations, home expansion, symlink-free real paths and containment checks.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg. The config file is searched in the
// current directory and in [ConfigDir]:
//
//	paths.ConfigDir() // ~/.config/deploytool on Linux
//
// # Containment
//
// Roots are compared by their resolved real paths. [Within] reports strict
// containment on path-element boundaries, so /srv/site2 is not inside
// /srv/site:
//
//	paths.Within("/srv/site", "/srv/site/blog")  // true
//	paths.Within("/srv/site", "/srv/site2")      // false
//	paths.Within("/srv/site", "/srv/site")       // false
package paths
