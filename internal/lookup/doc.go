// Package lookup resolves executable names to paths.
//
// Resolution follows execvp(3): a name containing a slash is used as given,
// anything else is searched in $PATH. Because kdump and rescue environments
// often run with a minimal $PATH, the system binary directories holding
// mount helpers are searched as a fallback:
//
//	resolver := lookup.NewResolver(&lookup.Config{
//	    SearchPaths: []string{"/opt/kdump/bin"}, // Optional extra directories
//	    Logger:      slog.Default(),
//	})
//	path, err := resolver.Resolve("showmount")
package lookup
