package domain

// LanguageName maps a Wiktionary language code to its canonical name.
// Unknown codes are returned unchanged so callers still get a usable label.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

var languageNames = map[string]string{
	// Modern languages.
	"af":  "Afrikaans",
	"sq":  "Albanian",
	"am":  "Amharic",
	"ar":  "Arabic",
	"hy":  "Armenian",
	"ast": "Asturian",
	"az":  "Azerbaijani",
	"eu":  "Basque",
	"be":  "Belarusian",
	"bn":  "Bengali",
	"br":  "Breton",
	"bg":  "Bulgarian",
	"my":  "Burmese",
	"ca":  "Catalan",
	"cmn": "Mandarin",
	"zh":  "Chinese",
	"yue": "Cantonese",
	"kw":  "Cornish",
	"co":  "Corsican",
	"hr":  "Serbo-Croatian",
	"sh":  "Serbo-Croatian",
	"cs":  "Czech",
	"da":  "Danish",
	"nl":  "Dutch",
	"en":  "English",
	"eo":  "Esperanto",
	"et":  "Estonian",
	"fo":  "Faroese",
	"fi":  "Finnish",
	"fr":  "French",
	"fy":  "West Frisian",
	"fur": "Friulian",
	"gl":  "Galician",
	"ka":  "Georgian",
	"de":  "German",
	"el":  "Greek",
	"gu":  "Gujarati",
	"ht":  "Haitian Creole",
	"ha":  "Hausa",
	"he":  "Hebrew",
	"hi":  "Hindi",
	"hu":  "Hungarian",
	"is":  "Icelandic",
	"id":  "Indonesian",
	"ga":  "Irish",
	"it":  "Italian",
	"ja":  "Japanese",
	"kk":  "Kazakh",
	"km":  "Khmer",
	"ko":  "Korean",
	"ku":  "Kurdish",
	"ky":  "Kyrgyz",
	"lo":  "Lao",
	"la":  "Latin",
	"lv":  "Latvian",
	"lij": "Ligurian",
	"lt":  "Lithuanian",
	"lmo": "Lombard",
	"lb":  "Luxembourgish",
	"mk":  "Macedonian",
	"mg":  "Malagasy",
	"ms":  "Malay",
	"ml":  "Malayalam",
	"mt":  "Maltese",
	"gv":  "Manx",
	"mi":  "Maori",
	"mr":  "Marathi",
	"mn":  "Mongolian",
	"nap": "Neapolitan",
	"ne":  "Nepali",
	"nb":  "Norwegian Bokmål",
	"nn":  "Norwegian Nynorsk",
	"no":  "Norwegian",
	"oc":  "Occitan",
	"fa":  "Persian",
	"pl":  "Polish",
	"pt":  "Portuguese",
	"pa":  "Punjabi",
	"ro":  "Romanian",
	"rm":  "Romansch",
	"ru":  "Russian",
	"sa":  "Sanskrit",
	"sc":  "Sardinian",
	"gd":  "Scottish Gaelic",
	"scn": "Sicilian",
	"sk":  "Slovak",
	"sl":  "Slovene",
	"so":  "Somali",
	"dsb": "Lower Sorbian",
	"hsb": "Upper Sorbian",
	"es":  "Spanish",
	"sw":  "Swahili",
	"sv":  "Swedish",
	"tl":  "Tagalog",
	"tg":  "Tajik",
	"ta":  "Tamil",
	"tt":  "Tatar",
	"te":  "Telugu",
	"th":  "Thai",
	"bo":  "Tibetan",
	"tr":  "Turkish",
	"tk":  "Turkmen",
	"uk":  "Ukrainian",
	"ur":  "Urdu",
	"ug":  "Uyghur",
	"uz":  "Uzbek",
	"vec": "Venetian",
	"vi":  "Vietnamese",
	"wa":  "Walloon",
	"cy":  "Welsh",
	"yi":  "Yiddish",
	"yo":  "Yoruba",
	"zu":  "Zulu",
	"sco": "Scots",
	"lad": "Ladino",
	"pap": "Papiamentu",
	"tpi": "Tok Pisin",
	"crh": "Crimean Tatar",
	"os":  "Ossetian",
	"ps":  "Pashto",
	"ckb": "Central Kurdish",
	"kmr": "Northern Kurdish",
	"arz": "Egyptian Arabic",
	"apc": "North Levantine Arabic",
	"ary": "Moroccan Arabic",
	"ba":  "Bashkir",
	"cv":  "Chuvash",
	"sah": "Yakut",
	"se":  "Northern Sami",
	"krl": "Karelian",
	"vep": "Veps",
	"liv": "Livonian",
	"vot": "Votic",
	"izh": "Ingrian",

	// Historical languages.
	"ang":     "Old English",
	"enm":     "Middle English",
	"fro":     "Old French",
	"frm":     "Middle French",
	"xno":     "Anglo-Norman",
	"goh":     "Old High German",
	"gmh":     "Middle High German",
	"osx":     "Old Saxon",
	"gml":     "Middle Low German",
	"odt":     "Old Dutch",
	"dum":     "Middle Dutch",
	"non":     "Old Norse",
	"got":     "Gothic",
	"ofs":     "Old Frisian",
	"sga":     "Old Irish",
	"mga":     "Middle Irish",
	"owl":     "Old Welsh",
	"wlm":     "Middle Welsh",
	"grc":     "Ancient Greek",
	"gkm":     "Byzantine Greek",
	"gmy":     "Mycenaean Greek",
	"la-lat":  "Late Latin",
	"la-med":  "Medieval Latin",
	"la-new":  "New Latin",
	"la-vul":  "Vulgar Latin",
	"LL.":     "Late Latin",
	"ML.":     "Medieval Latin",
	"NL.":     "New Latin",
	"VL.":     "Vulgar Latin",
	"pro":     "Old Occitan",
	"osp":     "Old Spanish",
	"roa-opt": "Old Galician-Portuguese",
	"roa-oit": "Old Italian",
	"ca-old":  "Old Catalan",
	"orv":     "Old East Slavic",
	"cu":      "Old Church Slavonic",
	"zlw-opl": "Old Polish",
	"zlw-ocs": "Old Czech",
	"peo":     "Old Persian",
	"pal":     "Middle Persian",
	"ota":     "Ottoman Turkish",
	"otk":     "Old Turkic",
	"akk":     "Akkadian",
	"sux":     "Sumerian",
	"egy":     "Egyptian",
	"cop":     "Coptic",
	"hbo":     "Biblical Hebrew",
	"arc":     "Aramaic",
	"syc":     "Classical Syriac",
	"phn":     "Phoenician",
	"hit":     "Hittite",
	"xto":     "Tocharian A",
	"txb":     "Tocharian B",
	"ae":      "Avestan",
	"pi":      "Pali",
	"inc-pra": "Prakrit",
	"ett":     "Etruscan",
	"osc":     "Oscan",
	"xum":     "Umbrian",
	"xcl":     "Old Armenian",
	"oge":     "Old Georgian",
	"ojp":     "Old Japanese",
	"och":     "Old Chinese",
	"ltc":     "Middle Chinese",
	"okm":     "Middle Korean",
	"oko":     "Old Korean",
	"xbm":     "Middle Breton",
	"cnx":     "Middle Cornish",
	"oco":     "Old Cornish",
	"frk":     "Frankish",
	"ONF":     "Old Northern French",
	"fro-nor": "Old Northern French",
	"gem-lan": "Langobardic",

	// Reconstructed languages.
	"ine-pro":     "Proto-Indo-European",
	"gem-pro":     "Proto-Germanic",
	"gmw-pro":     "Proto-West Germanic",
	"itc-pro":     "Proto-Italic",
	"cel-pro":     "Proto-Celtic",
	"sla-pro":     "Proto-Slavic",
	"bat-pro":     "Proto-Balto-Slavic",
	"ine-bsl-pro": "Proto-Balto-Slavic",
	"iir-pro":     "Proto-Indo-Iranian",
	"ira-pro":     "Proto-Iranian",
	"inc-pro":     "Proto-Indo-Aryan",
	"grk-pro":     "Proto-Hellenic",
	"urj-pro":     "Proto-Uralic",
	"fiu-fin-pro": "Proto-Finnic",
	"sem-pro":     "Proto-Semitic",
	"afa-pro":     "Proto-Afroasiatic",
	"trk-pro":     "Proto-Turkic",
	"sit-pro":     "Proto-Sino-Tibetan",
	"aav-pro":     "Proto-Austroasiatic",
	"map-pro":     "Proto-Austronesian",
	"poz-pro":     "Proto-Malayo-Polynesian",
	"dra-pro":     "Proto-Dravidian",
	"alg-pro":     "Proto-Algonquian",
	"nah-pro":     "Proto-Nahuan",
	"ber-pro":     "Proto-Berber",
	"cel-bry-pro": "Proto-Brythonic",
	"gem-nwg-pro": "Proto-Northwest Germanic",
	"roa-pro":     "Proto-Romance",
	"xxt-pro":     "Proto-Tai",
}
