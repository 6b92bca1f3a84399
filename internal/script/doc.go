// Package script exposes the editing core to Lua. A host embeds one
// app and preloads the "etude" module; scripts read score and
// selection snapshots as plain tables and edit only by dispatching
// commands, never by mutating the snapshot.
//
//	local etude = require("etude")
//	etude.dispatch("addEvent", { pitch = "C4", duration = "quarter" })
//	etude.transaction(function()
//	    etude.dispatch("addNote", { eventId = id, pitch = "E4" })
//	    etude.dispatch("addNote", { eventId = id, pitch = "G4" })
//	end)
package script
