package ebmonitor

type Configuration struct {
	MaxEvents         int    `json:"max_events"`
	Verbosity         int    `json:"verbosity"`
	Skip              int    `json:"skip"`
	FileIn            string `json:"file_in"`
	PlotDir           string `json:"plot_dir"`
	EnableCleanup     bool   `json:"enable_cleanup"`
	DigiCollection    string `json:"digi_collection"`
	PnDiodeCollection string `json:"pn_diode_collection"`
	TaskLabel         string `json:"task_label"`
	Folder            string `json:"folder"`
	NoDB              bool   `json:"no_db"`
	Host              string `json:"host"`
	User              string `json:"user"`
	Passwd            string `json:"pass"`
	DBName            string `json:"dbname"`
}

const (
	DefaultDigiCollection    = "ecalEBunpacker:ebDigis"
	DefaultPnDiodeCollection = "ecalEBunpacker:pnDiodeDigis"
)

func DefaultConfiguration() Configuration {
	var config Configuration

	// Set default values
	config.MaxEvents = 1000000000
	config.Verbosity = 0
	config.Skip = 0
	config.EnableCleanup = true
	config.DigiCollection = DefaultDigiCollection
	config.PnDiodeCollection = DefaultPnDiodeCollection
	config.TaskLabel = DefaultTaskLabel
	config.Folder = DefaultFolder
	config.NoDB = true
	config.Host = "localhost"
	config.User = "ecalreader"
	config.Passwd = "readonly"
	config.DBName = "ECAL_CONDITIONS"
	return config
}
