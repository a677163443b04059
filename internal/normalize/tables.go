package normalize

// Fold is one ordered rewrite applied during normalization.
type Fold struct {
	From string
	To   string
}

// Concept maps a whole-word term to its retrieval synonyms.
type Concept struct {
	Term     string
	Synonyms []string
}

// Tables is the immutable configuration of a Normalizer.
// Order matters in both slices.
type Tables struct {
	Folds    []Fold
	Concepts []Concept
}

// DefaultTables returns the Sanskrit/IAST/Devanagari folds and the Vedic
// concept dictionary. Each call returns fresh slices.
func DefaultTables() Tables {
	return Tables{
		Folds:    defaultFolds(),
		Concepts: defaultConcepts(),
	}
}

func defaultFolds() []Fold {
	return []Fold{
		// Phrase folds first: they match diacritic forms before the strips below.
		{"kṛṣṇa", "krishna"},
		{"krsna", "krishna"},
		{"कृष्ण", "krishna"},
		{"अर्जुन", "arjuna"},
		{"bhagavad gītā", "bhagavad gita"},
		{"bhagavad geeta", "bhagavad gita"},
		{"भगवद्गीता", "bhagavad gita"},
		{"योग", "yoga"},
		{"धर्म", "dharma"},
		{"कर्म", "karma"},
		{"ātmā", "atma"},
		{"atman", "atma"},
		{"आत्मा", "atma"},
		{"ब्रह्मन्", "brahman"},
		{"भक्ति", "bhakti"},

		{"ā", "a"},
		{"ī", "i"},
		{"ū", "u"},
		{"ṛ", "r"},
		{"ṝ", "r"},
		{"ḷ", "l"},
		{"ḹ", "l"},
		{"ṃ", "m"},
		{"ṁ", "m"},
		{"ḥ", "h"},
		{"ś", "s"},
		{"ṣ", "s"},
		{"ṭ", "t"},
		{"ḍ", "d"},
		{"ṇ", "n"},
		{"ñ", "n"},
	}
}

func defaultConcepts() []Concept {
	return []Concept{
		{"krishna", []string{"supreme personality of godhead", "bhagavan", "govinda", "vasudeva"}},
		{"god", []string{"supreme", "absolute truth", "bhagavan", "paramatma", "supersoul"}},
		{"lord", []string{"supreme lord", "krishna", "vishnu", "narayana"}},

		{"chanting", []string{"kirtan", "japa", "holy name", "hare krishna mantra", "maha mantra"}},
		{"meditation", []string{"dhyana", "contemplation", "concentration"}},
		{"prayer", []string{"supplication", "devotional service", "bhajan"}},
		{"worship", []string{"puja", "arcana", "deity worship", "devotional service"}},

		{"soul", []string{"atma", "self", "spirit soul", "jivatma", "living entity"}},
		{"supersoul", []string{"paramatma", "antaryami", "inner witness"}},
		{"liberation", []string{"moksha", "mukti", "freedom", "self-realization"}},
		{"consciousness", []string{"awareness", "knowledge", "jnana", "realization"}},

		{"bhakti", []string{"devotion", "devotional service", "love of god", "pure devotion"}},
		{"yoga", []string{"union", "connection", "spiritual practice"}},
		{"karma yoga", []string{"action in devotion", "work in krishna consciousness"}},
		{"jnana", []string{"knowledge", "wisdom", "understanding"}},

		{"dharma", []string{"duty", "righteousness", "religion", "eternal occupation"}},
		{"karma", []string{"action", "work", "fruitive activities", "reaction"}},
		{"maya", []string{"illusion", "material energy", "external energy"}},
		{"reincarnation", []string{"transmigration", "rebirth", "samsara", "cycle of birth and death"}},

		{"guru", []string{"spiritual master", "teacher", "acharya", "preceptor"}},
		{"disciple", []string{"student", "devotee", "follower", "initiate"}},
		{"association", []string{"satsanga", "company", "sangha", "fellowship"}},

		{"renunciation", []string{"detachment", "vairagya", "sannyasa"}},
		{"surrender", []string{"sharanagati", "submission", "giving up"}},
		{"humility", []string{"meekness", "modesty", "absence of pride"}},
		{"tolerance", []string{"forbearance", "patience", "titiksha"}},

		{"material", []string{"temporary", "mundane", "worldly", "maya"}},
		{"spiritual", []string{"transcendental", "eternal", "absolute", "divine"}},
		{"illusion", []string{"maya", "false ego", "ahamkara", "misidentification"}},

		{"service", []string{"seva", "devotional service", "bhakti", "surrender"}},
		{"love", []string{"prema", "pure love", "devotion", "affection for krishna"}},
		{"grace", []string{"mercy", "kripa", "blessing", "causeless mercy"}},

		{"mind", []string{"manas", "mental", "thoughts", "consciousness"}},
		{"senses", []string{"indriyas", "sense organs", "sense gratification"}},
		{"desire", []string{"kama", "lust", "craving", "material desire"}},

		{"life", []string{"existence", "living", "embodiment"}},
		{"death", []string{"passing", "leaving body", "transmigration"}},
		{"body", []string{"material body", "form", "physical vessel"}},

		{"bhagavad gita", []string{"gita", "song of god", "krishnas teaching"}},
		{"srimad bhagavatam", []string{"bhagavatam", "bhagavata purana"}},
		{"vedas", []string{"vedic literature", "shruti", "revealed scriptures"}},

		{"creation", []string{"manifestation", "cosmic creation", "material world"}},
		{"time", []string{"kala", "eternal time", "factor of time"}},
		{"universe", []string{"material world", "cosmic manifestation", "brahmanda"}},
	}
}
