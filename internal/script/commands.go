package script

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	lua "github.com/yuin/gopher-lua"

	"github.com/etudehq/etude/internal/command"
	"github.com/etudehq/etude/internal/rhythm"
)

// buildCommand maps a script payload onto a concrete command. Field
// names mirror the serialized document: pitch, eventId, noteId,
// duration (a name like "quarter"), staffIndex and measureIndex
// default to zero.
func buildCommand(typ string, p *lua.LTable) (command.Command, error) {
	switch typ {
	case "addEvent":
		return &command.AddEvent{
			StaffIndex:   tblInt(p, "staffIndex", 0),
			MeasureIndex: tblInt(p, "measureIndex", 0),
			Duration:     tblDuration(p, "duration"),
			Dotted:       tblBool(p, "dotted"),
			Rest:         tblBool(p, "rest"),
			Pitch:        tblString(p, "pitch"),
			Accidental:   tblString(p, "accidental"),
		}, nil
	case "insertEvent":
		return &command.InsertEvent{
			StaffIndex:   tblInt(p, "staffIndex", 0),
			MeasureIndex: tblInt(p, "measureIndex", 0),
			Index:        tblInt(p, "index", 0),
			Duration:     tblDuration(p, "duration"),
			Dotted:       tblBool(p, "dotted"),
			Rest:         tblBool(p, "rest"),
			Pitch:        tblString(p, "pitch"),
			Accidental:   tblString(p, "accidental"),
		}, nil
	case "addNote":
		return &command.AddNoteToEvent{
			StaffIndex:   tblInt(p, "staffIndex", 0),
			MeasureIndex: tblInt(p, "measureIndex", 0),
			EventID:      tblString(p, "eventId"),
			Pitch:        tblString(p, "pitch"),
			Accidental:   tblString(p, "accidental"),
		}, nil
	case "updateNote":
		cmd := &command.UpdateNote{
			StaffIndex:   tblInt(p, "staffIndex", 0),
			MeasureIndex: tblInt(p, "measureIndex", 0),
			EventID:      tblString(p, "eventId"),
			NoteID:       tblString(p, "noteId"),
		}
		if v := p.RawGetString("pitch"); v != lua.LNil {
			s := lua.LVAsString(v)
			cmd.Pitch = &s
		}
		if v := p.RawGetString("accidental"); v != lua.LNil {
			s := lua.LVAsString(v)
			cmd.Accidental = &s
		}
		if v := p.RawGetString("tied"); v != lua.LNil {
			b := lua.LVAsBool(v)
			cmd.Tied = &b
		}
		return cmd, nil
	case "updateEvent":
		cmd := &command.UpdateEvent{
			StaffIndex:   tblInt(p, "staffIndex", 0),
			MeasureIndex: tblInt(p, "measureIndex", 0),
			EventID:      tblString(p, "eventId"),
		}
		if v := p.RawGetString("duration"); v != lua.LNil {
			d := parseDuration(lua.LVAsString(v))
			cmd.Duration = &d
		}
		if v := p.RawGetString("dotted"); v != lua.LNil {
			b := lua.LVAsBool(v)
			cmd.Dotted = &b
		}
		return cmd, nil
	case "deleteNote":
		return &command.DeleteNote{
			StaffIndex:   tblInt(p, "staffIndex", 0),
			MeasureIndex: tblInt(p, "measureIndex", 0),
			EventID:      tblString(p, "eventId"),
			NoteID:       tblString(p, "noteId"),
		}, nil
	case "deleteEvent":
		return &command.DeleteEvent{
			StaffIndex:   tblInt(p, "staffIndex", 0),
			MeasureIndex: tblInt(p, "measureIndex", 0),
			EventID:      tblString(p, "eventId"),
		}, nil
	case "addMeasure":
		return &command.AddMeasure{AtIndex: tblInt(p, "atIndex", -1)}, nil
	case "deleteMeasure":
		return &command.DeleteMeasure{MeasureIndex: tblInt(p, "measureIndex", 0)}, nil
	case "transpose":
		return &command.TransposeSelection{
			StaffIndex:   tblInt(p, "staffIndex", 0),
			MeasureIndex: tblInt(p, "measureIndex", 0),
			EventID:      tblString(p, "eventId"),
			NoteID:       tblString(p, "noteId"),
			Semitones:    tblInt(p, "semitones", 0),
		}, nil
	case "applyTuplet":
		return &command.ApplyTuplet{
			StaffIndex:   tblInt(p, "staffIndex", 0),
			MeasureIndex: tblInt(p, "measureIndex", 0),
			EventID:      tblString(p, "eventId"),
			Ratio: rhythm.Ratio{
				Actual: tblInt(p, "actual", 3),
				Target: tblInt(p, "target", 2),
			},
			GroupSize: tblInt(p, "groupSize", 0),
		}, nil
	case "removeTuplet":
		return &command.RemoveTuplet{
			StaffIndex:   tblInt(p, "staffIndex", 0),
			MeasureIndex: tblInt(p, "measureIndex", 0),
			TupletID:     tblString(p, "tupletId"),
		}, nil
	case "setTimeSignature":
		return &command.SetTimeSignature{
			TimeSignature: tblString(p, "timeSignature"),
		}, nil
	default:
		return nil, fault.Wrap(ErrUnknownCommand, fmsg.With(typ))
	}
}

func tblInt(p *lua.LTable, key string, def int) int {
	v := p.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return def
}

func tblString(p *lua.LTable, key string) string {
	v := p.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

func tblBool(p *lua.LTable, key string) bool {
	v := p.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return false
}

func tblDuration(p *lua.LTable, key string) rhythm.Duration {
	return parseDuration(tblString(p, key))
}

func parseDuration(name string) rhythm.Duration {
	var d rhythm.Duration
	_ = d.UnmarshalText([]byte(name))
	return d
}
