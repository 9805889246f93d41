package config

// Default returns the built-in configuration. Keyword stems come from the
// lists the bot has always shipped with.
func Default() Config {
	return Config{
		App:   AppConfig{Port: 38471, DataDir: "."},
		Log:   LogConfig{Level: "info"},
		Store: StoreConfig{Path: "shelters.db"},
		VK: VKConfig{
			APIURL:            "https://api.vk.com/method",
			Version:           "5.199",
			RequestsPerSecond: 3,
			Burst:             1,
			TimeoutSeconds:    20,
			MaxRetries:        3,
			WebFallback:       true,
			WebURL:            "https://m.vk.com",
		},
		Telegram: TelegramConfig{APIURL: "https://api.telegram.org"},
		Ingest: IngestConfig{
			Cities:         []string{"Москва", "Санкт-Петербург", "Новосибирск", "Екатеринбург", "Казань"},
			SearchLimit:    20,
			PostsPerSource: 10,
			MaxNewSources:  10,
			FreshDays:      14,
			DelayMillis:    350,
			LockFile:       "ingest.lock",
		},
		Schedule: ScheduleConfig{
			Enabled:          true,
			Cron:             "0 3 * * *",
			Timezone:         "Europe/Moscow",
			FavoritesMinutes: 60,
		},
		Dedup: DedupConfig{
			Backend:  "sqlite",
			File:     "visited.json",
			RedisKey: "shelterbot:visited",
		},
		Scoring: ScoringConfig{
			MinScore:      5,
			StaleDays:     14,
			StalePenalty:  -3,
			HelpPoints:    3,
			ContactPoints: 2,
			AddressPoints: 2,
			TopicPoints:   1,
			CityPoints:    1,
			MaxNeedLines:  2,
			TieBreak:      "first",
		},
		Address: AddressConfig{Strategy: "auto", WindowChars: 300},
		Keywords: Keywords{
			Relevance: []string{
				"приют", "волонт", "животн", "кошк", "котят", "котик", "собак", "щенк", "щенят",
				"зоозащит", "передерж", "хвостик", "пристро", "бездомн",
			},
			Inclusion: []string{
				"приют", "волонт", "животн", "зоозащит", "передерж", "кошк", "котик", "собак",
				"хвост", "лап", "пристро", "спасен", "бездомн", "в добрые руки", "отда",
			},
			Exclusion: []string{
				"бизнес", "магазин", "доставка", "реклама", "бренд", "торговл", "продаж", "купить",
				"скидк", "оптом", "зоотовар", "груминг", "стрижк", "ветаптек",
				"заводчик", "вязк", "порода", "выставк", "кинолог", "дрессиров", "такси",
				"недвижимост", "кредит", "казино", "ставк", "знакомств", "салон", "кафе", "ресторан",
				"туризм", "гостиниц", "мебел", "косметик", "маркетплейс", "франшиз",
			},
			Help: []string{
				"нужн", "нужен", "срочн", "требует", "необходим", "собираем", "сбор",
				"помоги", "помощ", "помоч", "поддерж", "ищем", "примем", "не хватает",
			},
			Topic: []string{"приют", "волонт", "животн", "зоозащит", "передерж"},
			Address: []string{
				"ул.", "улица", "улице", "проспект", "пр-т", "переулок", "шоссе", "бульвар",
				"набережн", "по адресу", "адрес:", "место встречи", "находимся", "пункт приема",
			},
			Urgent:    []string{"срочн", "немедленно", "sos", "экстренн"},
			NotUrgent: []string{"не срочн", "несрочн", "можно позже", "не горит"},
			Search: []string{
				"приют для животных", "помощь бездомным животным", "зоозащита", "передержка животных",
			},
		},
		Favorites: FavoritesConfig{
			WindowHours:    48,
			PostsPerSource: 10,
			Keywords:       []string{"волонтёр", "помощь", "приходите", "корм", "сбор", "лекарства", "деньги"},
		},
	}
}
