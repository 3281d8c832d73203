package public

import (
  "embed"
  "io/fs"
)

//go:embed css images
var static embed.FS

// StaticFS serves css/ and images/, mounted under /public.
func StaticFS() fs.FS {
  return static
}
