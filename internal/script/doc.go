// Package script provides handler modules backed by Lua source files.
//
// A script defines a global handlers table mapping event keys to functions:
//
//	handlers = {
//	    ["greet"] = function(id, payload)
//	        return '{"msg":"hello"}'
//	    end,
//	    ["reject"] = function(id, payload)
//	        return nil, "not today"
//	    end,
//	}
//
// Each function receives the request identifier and the raw JSON payload as
// strings. It returns the response payload, or nil plus an error message.
//
// A gopher-lua LState is not goroutine-safe, so all handler invocations for
// one script are serialized through a mutex; concurrent dispatch tasks
// targeting the same script take turns.
package script
