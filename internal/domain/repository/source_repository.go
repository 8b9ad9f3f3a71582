package repository

// SourceRepository lê os arquivos CSV de custos exportados pelo console de billing.
type SourceRepository interface {
	ReadCSVFile(path string) (string, error)
}
