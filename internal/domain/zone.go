package domain

// Zone is a fixed geographic partition of hotels. Every hotel and courier
// belongs to exactly one zone; route generation never crosses zone boundaries.
type Zone string

const (
	ZoneCentro Zone = "CENTRO"
	ZoneNorte  Zone = "NORTE"
	ZoneSur    Zone = "SUR"
	ZoneEste   Zone = "ESTE"
	ZoneOeste  Zone = "OESTE"
)

// AllZones returns every known zone in a stable order. The orchestrator uses
// this as the default zone list when the caller does not restrict zones.
func AllZones() []Zone {
	return []Zone{ZoneCentro, ZoneNorte, ZoneSur, ZoneEste, ZoneOeste}
}

// Valid reports whether z is one of the known zones.
func (z Zone) Valid() bool {
	switch z {
	case ZoneCentro, ZoneNorte, ZoneSur, ZoneEste, ZoneOeste:
		return true
	}
	return false
}
