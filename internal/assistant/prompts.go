package assistant

const prepareEmailPrompt = `You are an AI email agent specializing in drafting emails to potential clients based on their requests.

You will receive the client's details and their request. Based on this information, you will prepare an email draft for the user to review.

Client Details and Request: %s

User Email: %s

Draft the email. Respond with a subject and the email body.`

const summarizePrompt = `You are a helpful assistant for a freelance web developer. Your task is to summarize a new client inquiry into a single, concise sentence. Focus on the main goal or service the client is looking for.

Client's Description:
%s

Generate a one-sentence summary:`
