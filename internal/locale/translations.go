package locale

// builtin holds the translations shipped with the built-in features.
var builtin = map[string]map[string]string{
	"de": {
		"inline image widget": "Inline-Bild-Widget",
		"image widget":        "Bild-Widget",
		"Open file manager":   "Dateimanager öffnen",
		"Insert image":        "Bild einfügen",
		"Change image type":   "Bildtyp ändern",
		"Paragraph":           "Absatz",
	},
	"es": {
		"inline image widget": "widget de imagen en línea",
		"image widget":        "Widget de imagen",
		"Open file manager":   "Abrir el administrador de archivos",
		"Insert image":        "Insertar imagen",
		"Change image type":   "Cambiar el tipo de imagen",
		"Paragraph":           "Párrafo",
	},
	"pl": {
		"inline image widget": "Obraz w linii",
		"image widget":        "Obraz",
		"Open file manager":   "Otwórz menedżer plików",
		"Insert image":        "Wstaw obraz",
		"Change image type":   "Zmień typ obrazka",
		"Paragraph":           "Akapit",
	},
}
