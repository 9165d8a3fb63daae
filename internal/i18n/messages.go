package i18n

// UI strings for server-rendered pages and localized API messages.
var messages = map[string]Text{
	"dates_taken": {
		TR: "Seçilen tarihler zaten rezerve edilmiş.",
		EN: "The selected dates are already reserved.",
		RU: "Выбранные даты уже забронированы.",
		AR: "التواريخ المحددة محجوزة بالفعل.",
	},
	"conflict": {
		TR: "Bu kayıt zaten mevcut veya başka bir kayıt tarafından kullanılıyor.",
		EN: "This record already exists or is still in use.",
		RU: "Эта запись уже существует или всё ещё используется.",
		AR: "هذا السجل موجود بالفعل أو لا يزال قيد الاستخدام.",
	},
	"reservation_ok": {
		TR: "Rezervasyon talebiniz alındı. En kısa sürede sizinle iletişime geçeceğiz.",
		EN: "Your reservation request has been received. We will contact you shortly.",
		RU: "Ваша заявка на бронирование получена. Мы скоро свяжемся с вами.",
		AR: "تم استلام طلب الحجز الخاص بك. سنتواصل معك قريبًا.",
	},
	"reservation_invalid": {
		TR: "Lütfen tüm alanları ve geçerli tarihleri girin.",
		EN: "Please fill in all fields with valid dates.",
		RU: "Пожалуйста, заполните все поля и укажите корректные даты.",
		AR: "يرجى ملء جميع الحقول بتواريخ صحيحة.",
	},
	"error_generic": {
		TR: "Bir hata oluştu. Lütfen tekrar deneyin.",
		EN: "Something went wrong. Please try again.",
		RU: "Произошла ошибка. Пожалуйста, попробуйте снова.",
		AR: "حدث خطأ. يرجى المحاولة مرة أخرى.",
	},
	"not_found":    {TR: "Sayfa bulunamadı", EN: "Page not found", RU: "Страница не найдена", AR: "الصفحة غير موجودة"},
	"home":         {TR: "Ana Sayfa", EN: "Home", RU: "Главная", AR: "الرئيسية"},
	"services":     {TR: "Hizmetler", EN: "Services", RU: "Услуги", AR: "الخدمات"},
	"blog":         {TR: "Blog", EN: "Blog", RU: "Блог", AR: "المدونة"},
	"faq":          {TR: "Sıkça Sorulan Sorular", EN: "FAQ", RU: "Частые вопросы", AR: "الأسئلة الشائعة"},
	"campaigns":    {TR: "Kampanyalar", EN: "Campaigns", RU: "Акции", AR: "العروض"},
	"all":          {TR: "Tümü", EN: "All", RU: "Все", AR: "الكل"},
	"book_now":     {TR: "Rezervasyon Yap", EN: "Book now", RU: "Забронировать", AR: "احجز الآن"},
	"name":         {TR: "Ad Soyad", EN: "Full name", RU: "Имя и фамилия", AR: "الاسم الكامل"},
	"email":        {TR: "E-posta", EN: "Email", RU: "Эл. почта", AR: "البريد الإلكتروني"},
	"phone":        {TR: "Telefon", EN: "Phone", RU: "Телефон", AR: "الهاتف"},
	"start_date":   {TR: "Başlangıç", EN: "Start date", RU: "Дата начала", AR: "تاريخ البدء"},
	"end_date":     {TR: "Bitiş", EN: "End date", RU: "Дата окончания", AR: "تاريخ الانتهاء"},
	"guests":       {TR: "Kişi sayısı", EN: "Guests", RU: "Гости", AR: "الضيوف"},
	"requests":     {TR: "Özel istekler", EN: "Special requests", RU: "Особые пожелания", AR: "طلبات خاصة"},
	"availability": {TR: "Müsaitlik", EN: "Availability", RU: "Доступность", AR: "التوفر"},
	"features":     {TR: "Özellikler", EN: "Features", RU: "Особенности", AR: "المميزات"},
	"per_day":      {TR: "gün", EN: "day", RU: "день", AR: "يوم"},
	"per_week":     {TR: "hafta", EN: "week", RU: "неделя", AR: "أسبوع"},
	"read_more":    {TR: "Devamını oku", EN: "Read more", RU: "Читать далее", AR: "اقرأ المزيد"},
	"empty":        {TR: "Şu anda gösterilecek içerik yok.", EN: "Nothing to show yet.", RU: "Пока ничего нет.", AR: "لا يوجد محتوى حاليًا."},
	"contact":      {TR: "İletişim", EN: "Contact", RU: "Контакты", AR: "اتصل بنا"},
	"booked":       {TR: "Dolu", EN: "Booked", RU: "Занято", AR: "محجوز"},
	"free":         {TR: "Müsait", EN: "Available", RU: "Свободно", AR: "متاح"},
}

// T returns the UI string for key in locale, falling back to Default, then to key.
func T(locale, key string) string {
	m, ok := messages[key]
	if !ok {
		return key
	}
	if s := m.In(locale); s != "" {
		return s
	}
	return key
}
