package assistant

const trainerFallback = "I can look at how your clients are training. " +
	"Ask me something like \"how are my clients doing?\" and I'll go through each of them."

const noClientsReply = "You don't have any clients yet. Add one from the dashboard and ask me again."

const noProfileReply = "I can't find your profile yet. Finish the onboarding form and I'll be able to help."

var motivationLines = []string{
	"Every rep counts. Show up today, even if it's a short session.",
	"You don't have to be extreme, just consistent.",
	"The hardest part is starting. Put your shoes on and the rest follows.",
	"Progress is slow until it isn't. Keep stacking workouts.",
	"Tired is fine. Skipped is what you'll remember.",
}

var tips = []string{
	"Tip: drink a glass of water before every meal.",
	"Tip: aim for 7-9 hours of sleep, recovery is where you get stronger.",
	"Tip: add a little weight or one more rep each week.",
	"Tip: warm up for 5-10 minutes before heavy sets.",
	"Tip: get 1.6-2 g of protein per kg of body weight on training days.",
	"Tip: a 20 minute walk on rest days helps recovery.",
}
