package i18n

var messages = map[string]map[string]string{
	"en": {
		"app.tagline": "One life. No rules. No safe zones.",

		"nav.home":     "Home",
		"nav.wiki":     "Wiki",
		"nav.play":     "Play",
		"nav.language": "Language",
		"nav.menu":     "Menu",

		"landing.description":                "A hardcore survival experiment.",
		"landing.info":                       "Forty players, one world, and no second chances. Every choice stays with you.",
		"landing.one_life":                   "One life",
		"landing.feature_one_life_desc":      "Die once and you are out until the next season.",
		"landing.no_rules":                   "No rules",
		"landing.feature_no_rules_desc":      "Alliances, betrayal, diplomacy: the server only records what happens.",
		"landing.no_safe_zones":              "No safe zones",
		"landing.feature_no_safe_zones_desc": "Every block of the map can be fought over.",
		"landing.cta_join":                   "Join the experiment",
		"landing.cta_learn_more":             "Learn more",
		"landing.flavor_line":                "The world remembers everything.",

		"auth.login.title":                 "Login",
		"auth.login.submit":                "Login",
		"auth.login.to_register":           "Register",
		"auth.login.success":               "Login successful!",
		"auth.login.failed":                "Login failed.",
		"auth.register.title":              "Registration",
		"auth.register.submit":             "Register",
		"auth.register.to_login":           "Back to Login",
		"auth.register.success":            "Registration successful!",
		"auth.register.failed":             "Registration failed.",
		"auth.field.username":              "Username",
		"auth.field.email":                 "Email",
		"auth.field.password":              "Password",
		"auth.field.password_confirmation": "Repeat password",
		"auth.redirecting":                 "Redirecting…",
		"auth.busy":                        "A submission is already in progress.",
		"auth.logout":                      "Log out",

		"validation.username.required":              "Username is required.",
		"validation.username.min":                   "At least 3 characters.",
		"validation.username.max":                   "Max 255 characters.",
		"validation.username.pattern":               "No spaces allowed.",
		"validation.password.required":              "Password is required.",
		"validation.password.min":                   "At least 8 characters.",
		"validation.password.max":                   "Max 128 characters.",
		"validation.password.pattern":               "Min 8 chars, include letters and numbers.",
		"validation.email.required":                 "Email is required.",
		"validation.email.max":                      "Max 254 characters.",
		"validation.email.pattern":                  "Please enter a valid email address.",
		"validation.password_confirmation.required": "Repeating your password is required.",
		"validation.password_confirmation.mismatch": "Passwords do not match.",

		"dashboard.title":       "Dashboard",
		"dashboard.welcome":     "Welcome, %s!",
		"dashboard.unavailable": "We could not reach the accounts service. Try again shortly.",

		"notfound.title": "Page not found",
		"notfound.back":  "Back to home",
	},
	"uk": {
		"app.tagline": "Одне життя. Без правил. Без безпечних зон.",

		"nav.home":     "Головна",
		"nav.wiki":     "Вікі",
		"nav.play":     "Грати",
		"nav.language": "Мова",
		"nav.menu":     "Меню",

		"landing.description":                "Хардкорний експеримент на виживання.",
		"landing.info":                       "Сорок гравців, один світ і жодного другого шансу. Кожен вибір залишається з тобою.",
		"landing.one_life":                   "Одне життя",
		"landing.feature_one_life_desc":      "Помреш один раз, і ти поза грою до наступного сезону.",
		"landing.no_rules":                   "Без правил",
		"landing.feature_no_rules_desc":      "Союзи, зради, дипломатія: сервер лише фіксує, що відбувається.",
		"landing.no_safe_zones":              "Без безпечних зон",
		"landing.feature_no_safe_zones_desc": "За кожен блок мапи можна битися.",
		"landing.cta_join":                   "Приєднатися до експерименту",
		"landing.cta_learn_more":             "Дізнатися більше",
		"landing.flavor_line":                "Світ пам'ятає все.",

		"auth.login.title":                 "Вхід",
		"auth.login.submit":                "Увійти",
		"auth.login.to_register":           "Реєстрація",
		"auth.login.success":               "Вхід успішний!",
		"auth.login.failed":                "Не вдалося увійти.",
		"auth.register.title":              "Реєстрація",
		"auth.register.submit":             "Зареєструватися",
		"auth.register.to_login":           "Назад до входу",
		"auth.register.success":            "Реєстрація успішна!",
		"auth.register.failed":             "Не вдалося зареєструватися.",
		"auth.field.username":              "Ім'я користувача",
		"auth.field.email":                 "Електронна пошта",
		"auth.field.password":              "Пароль",
		"auth.field.password_confirmation": "Повторіть пароль",
		"auth.redirecting":                 "Перенаправлення…",
		"auth.busy":                        "Надсилання вже триває.",
		"auth.logout":                      "Вийти",

		"validation.username.required":              "Ім'я користувача обов'язкове.",
		"validation.username.min":                   "Щонайменше 3 символи.",
		"validation.username.max":                   "Максимум 255 символів.",
		"validation.username.pattern":               "Пробіли не дозволені.",
		"validation.password.required":              "Пароль обов'язковий.",
		"validation.password.min":                   "Щонайменше 8 символів.",
		"validation.password.max":                   "Максимум 128 символів.",
		"validation.password.pattern":               "Мінімум 8 символів, літери та цифри.",
		"validation.email.required":                 "Електронна пошта обов'язкова.",
		"validation.email.max":                      "Максимум 254 символи.",
		"validation.email.pattern":                  "Введіть дійсну адресу електронної пошти.",
		"validation.password_confirmation.required": "Повторення пароля обов'язкове.",
		"validation.password_confirmation.mismatch": "Паролі не збігаються.",

		"dashboard.title":       "Панель",
		"dashboard.welcome":     "Вітаємо, %s!",
		"dashboard.unavailable": "Не вдалося зв'язатися з сервісом облікових записів. Спробуйте пізніше.",

		"notfound.title": "Сторінку не знайдено",
		"notfound.back":  "На головну",
	},
}
