package dto

type ImportOutput struct {
	Total      int
	Imported   int
	Skipped    int
	Collection int
}

type ExportOutput struct {
	Payload []byte
	Digest  string
	Count   int
}
