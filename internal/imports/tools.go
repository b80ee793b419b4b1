package imports

import (
	// Every tool registers itself in init
	_ "github.com/sammcj/mcp-stringutils/internal/tools/generate"
	_ "github.com/sammcj/mcp-stringutils/internal/tools/jsonformat"
	_ "github.com/sammcj/mcp-stringutils/internal/tools/stringconvert"
	_ "github.com/sammcj/mcp-stringutils/internal/tools/utilities/toolhelp"
)
