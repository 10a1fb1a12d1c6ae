package ebmonitor

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type DCCMappingEntry struct {
	DCCID       int    `db:"DCCId"`
	SuperModule int    `db:"SuperModule"`
	Label       string `db:"Label"`
}

// DCCMap links every barrel DCC to the supermodule it reads out for a range of runs.
type DCCMap struct {
	ToSuperModule map[int]int
	Labels        map[int]string
}

// DBGeometry resolves supermodules through the DCC cabling stored in the
// conditions database. The mapping is reloaded whenever the run changes.
type DBGeometry struct {
	db        *sqlx.DB
	logger    Logger
	verbosity int
	runNumber int
	mapping   *DCCMap
}

func NewDBGeometry(db *sqlx.DB, logger Logger, verbosity int) *DBGeometry {
	if logger == nil {
		logger = nopLogger{}
	}
	return &DBGeometry{db: db, logger: logger, verbosity: verbosity, runNumber: -1}
}

func (g *DBGeometry) InitializeForRun(runNumber int) error {
	if g.mapping != nil && g.runNumber == runNumber {
		return nil
	}
	g.mapping = nil
	mapping, err := getDCCMappingFromDB(g.db, runNumber, g.logger, g.verbosity)
	if err != nil {
		errMessage := fmt.Errorf("error getting DCC mapping from database: %w", err)
		g.logger.Error(errMessage.Error())
		return errMessage
	}
	g.mapping = &mapping
	g.runNumber = runNumber
	return nil
}

func (g *DBGeometry) SupermoduleIndexOf(id DetID) (int, error) {
	if g.mapping == nil {
		return 0, ErrGeometryNotInitialized
	}
	var dcc int
	switch {
	case id.IsBarrel():
		dcc = FirstBarrelDCC + EBDetID(id).ISM() - 1
	case id.IsPnDiode():
		dcc = PnDiodeDetID(id).IDCCID()
	default:
		return 0, &ErrUnknownChannel{ID: id, Reason: "not a barrel channel"}
	}
	ism, ok := g.mapping.ToSuperModule[dcc]
	if !ok {
		return 0, &ErrUnknownChannel{ID: id, Reason: fmt.Sprintf("DCC %d not in mapping for run %d", dcc, g.runNumber)}
	}
	return ism, nil
}

func (g *DBGeometry) SupermoduleLabel(ism int) string {
	if g.mapping != nil {
		if label, ok := g.mapping.Labels[ism]; ok && label != "" {
			return label
		}
	}
	return SupermoduleLabel(ism)
}

func getDCCMappingFromDB(db *sqlx.DB, runNumber int, logger Logger, verbosity int) (DCCMap, error) {
	query := "SELECT DCCId, SuperModule, Label FROM DCCMapping WHERE MinRun <= %d and MaxRun >= %d ORDER BY DCCId"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if verbosity > 0 {
		logger.Info("DCC mapping read from DB", "database")
	}
	if verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return DCCMap{}, errMessage
	}
	defer rows.Close()

	entries := make([]DCCMappingEntry, 0, NumberOfSMs)
	for rows.Next() {
		result := DCCMappingEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return DCCMap{}, errMessage
		}
		entries = append(entries, result)
	}
	if err := rows.Err(); err != nil {
		return DCCMap{}, fmt.Errorf("error iterating DB rows: %w", err)
	}
	return buildDCCMap(entries)
}

// buildDCCMap validates the rows of one run: barrel DCCs only, supermodules
// in 1..36, no supermodule read by two DCCs.
func buildDCCMap(entries []DCCMappingEntry) (DCCMap, error) {
	dccMap := DCCMap{
		ToSuperModule: make(map[int]int),
		Labels:        make(map[int]string),
	}
	readBy := make(map[int]int)
	for _, entry := range entries {
		if entry.DCCID < FirstBarrelDCC || entry.DCCID > LastBarrelDCC {
			return DCCMap{}, fmt.Errorf("DCC %d is not a barrel DCC", entry.DCCID)
		}
		if entry.SuperModule < 1 || entry.SuperModule > NumberOfSMs {
			return DCCMap{}, fmt.Errorf("DCC %d mapped to invalid supermodule %d", entry.DCCID, entry.SuperModule)
		}
		if other, ok := readBy[entry.SuperModule]; ok && other != entry.DCCID {
			return DCCMap{}, fmt.Errorf("supermodule %d read by DCC %d and DCC %d", entry.SuperModule, other, entry.DCCID)
		}
		readBy[entry.SuperModule] = entry.DCCID
		dccMap.ToSuperModule[entry.DCCID] = entry.SuperModule
		dccMap.Labels[entry.SuperModule] = entry.Label
	}
	if len(dccMap.ToSuperModule) == 0 {
		return DCCMap{}, fmt.Errorf("empty DCC mapping")
	}
	return dccMap, nil
}
