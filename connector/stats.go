package connector

import "github.com/Konsultn-Engineering/sqlcmd/database"

// ConnectionStats represents database connection pool statistics.
type ConnectionStats struct {
	OpenConnections int
	InUse           int
	Idle            int
}

// Stats reports pool statistics for the connections opened by the built-in
// providers and zero stats for anything else.
func Stats(conn database.Connection) ConnectionStats {
	switch c := conn.(type) {
	case *database.SqlConnection:
		s := c.DB().Stats()
		return ConnectionStats{
			OpenConnections: s.OpenConnections,
			InUse:           s.InUse,
			Idle:            s.Idle,
		}
	case *database.PgxConnection:
		s := c.Pool().Stat()
		return ConnectionStats{
			OpenConnections: int(s.TotalConns()),
			InUse:           int(s.AcquiredConns()),
			Idle:            int(s.IdleConns()),
		}
	default:
		return ConnectionStats{}
	}
}
