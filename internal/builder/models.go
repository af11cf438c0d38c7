// internal/builder/models.go
package builder

import "log/slog"

type BuildOptions struct {
	CleanDestination bool
	Unsafe           bool
	// LiveReload appends the dev server's reload client to every page.
	LiveReload bool
	Logger     *slog.Logger
}

func (o BuildOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Result summarizes a build. Written counts pages and static assets whose
// bytes actually changed on disk; Removed counts stale pages deleted.
type Result struct {
	Pages   int
	Skipped int
	Written int
	Removed int
}

// Changed reports whether the build touched any output file.
func (r Result) Changed() bool {
	return r.Written > 0 || r.Removed > 0
}

const liveReloadClient = `(function() {
  var socket = new WebSocket("ws://" + window.location.host + "/ws");
  socket.onmessage = function(event) {
    if (event.data === "reload") {
      window.location.reload();
    }
  };
  socket.onerror = function() {
    console.error("Live reload connection error. Please restart 'docwrap serve'.");
  };
})();`
