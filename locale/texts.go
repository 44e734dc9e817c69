package locale

import "github.com/srvalle/contract-pro/model"

var table = map[Lang]*Texts{
	EN: {
		Title: "Service Agreement",
		Intro: "By this instrument, the undersigned parties enter into the present contract:",

		Contractor: "Client",
		Provider:   "Provider",
		TaxID:      "CPF/CNPJ No.",
		Resident:   "residing at",
		Email:      "E-mail:",

		Status: StatusLabels{
			Pending:    "Pending",
			InProgress: "In Progress",
			Completed:  "Completed",
		},

		Clauses: [8]Clause{
			{"Clause 1 - Object", "The object of this contract is the provision of the following services:"},
			{"Clause 2 - Scope of Work", "The provider undertakes to deliver the services described above in accordance with the specifications agreed upon by the parties, summarized below:"},
			{"Clause 3 - Term", ""},
			{"Clause 4 - Price and Payment", ""},
			{"Clause 5 - Copyright", "Rights over the final materials will be transferred to the client upon full payment."},
			{"Clause 6 - General Rules", "Both parties agree to maintain confidentiality regarding the information exchanged. In case of cancellation, the client shall pay proportionally for what has been produced to date. In case of late payment, a fine of 2% on the overdue amount will be applied, in addition to interest of 1% per month."},
			{"Clause 7 - Liability", "The provider shall not be liable for any indirect damages, loss of profits, loss of data, or any consequences resulting from the use of the services provided after the final delivery of the project."},
			{"Clause 8 - Jurisdiction", "For any eventual disputes, the jurisdiction of the city of {court_city} is hereby elected, with the parties waiving any other, however privileged it may be."},
		},

		TermStart:          "Start date:",
		TermEnd:            "Estimated delivery by:",
		TotalPrice:         "Total price:",
		PaymentMethod:      "Payment method:",
		RevisionCount:      "Number of Revisions",
		DateLabel:          "Date:",
		SignatureTaxIDName: "CPF/CNPJ:",

		Services: map[string]string{
			model.ServiceGraphicDesign:  "Graphic Design",
			model.ServiceWebDesign:      "Web Design",
			model.ServiceBranding:       "Branding",
			model.ServiceSocialMedia:    "Social Media",
			model.ServicePhotography:    "Photography",
			model.ServiceIllustration:   "Illustration",
			model.ServiceWebDevelopment: "Web Development",
			model.ServiceCopywriting:    "Copywriting",
			model.ServiceMarketing:      "Marketing",
		},
		Others: "Others",

		Close:            "Close",
		GeneratePDF:      "Generate PDF",
		ContractPreview:  "Contract Preview",
		DownloadPDF:      "Download PDF",
		GeneratingPDF:    "Generating PDF...",
		SendEmail:        "Send Contract by Email",
		Sending:          "Sending...",
		EmailSentSuccess: "Email sent successfully!",
		EmailSentError:   "Error sending contract by email.",
	},
	PT: {
		Title: "Contrato de Prestação de Serviços",
		Intro: "Pelo presente instrumento, as partes abaixo identificadas firmam o presente contrato:",

		Contractor: "Contratante",
		Provider:   "Contratado",
		TaxID:      "CPF/CNPJ nº",
		Resident:   "residente em",
		Email:      "E-mail:",

		Status: StatusLabels{
			Pending:    "Pendente",
			InProgress: "Em andamento",
			Completed:  "Concluído",
		},

		Clauses: [8]Clause{
			{"Cláusula 1 - Objeto", "O presente contrato tem como objeto a prestação dos seguintes serviços:"},
			{"Cláusula 2 - Escopo do Trabalho", "O contratado se compromete a entregar os serviços descritos acima conforme as especificações acordadas entre as partes, resumidas abaixo:"},
			{"Cláusula 3 - Prazo", ""},
			{"Cláusula 4 - Valor e Pagamento", ""},
			{"Cláusula 5 - Direitos Autorais", "Os direitos sobre os materiais finais serão transferidos ao contratante após o pagamento integral."},
			{"Cláusula 6 - Regras Gerais", "Ambas as partes concordam em manter sigilo sobre as informações trocadas. Em caso de cancelamento, o contratante pagará proporcionalmente ao que foi produzido até o momento. Em caso de atraso no pagamento, será aplicada multa de 2% sobre o valor em atraso, além de juros de 1% ao mês."},
			{"Cláusula 7 - Responsabilidade", "O contratado não será responsável por quaisquer danos indiretos, lucros cessantes, perdas de dados ou quaisquer consequências decorrentes do uso dos serviços prestados, após a entrega final do projeto."},
			{"Cláusula 8 - Foro", "Para eventuais conflitos, fica eleito o foro da cidade de {court_city}, renunciando as partes a qualquer outro por mais privilegiado que seja."},
		},

		TermStart:          "Início em:",
		TermEnd:            "Entrega prevista até:",
		TotalPrice:         "Valor total:",
		PaymentMethod:      "Forma de pagamento:",
		RevisionCount:      "Número de revisões",
		DateLabel:          "Data:",
		SignatureTaxIDName: "CPF/CNPJ:",

		Services: map[string]string{
			model.ServiceGraphicDesign:  "Design Gráfico",
			model.ServiceWebDesign:      "Web Design",
			model.ServiceBranding:       "Branding",
			model.ServiceSocialMedia:    "Social Media",
			model.ServicePhotography:    "Fotografia",
			model.ServiceIllustration:   "Ilustração",
			model.ServiceWebDevelopment: "Desenvolvimento Web",
			model.ServiceCopywriting:    "Copywriting",
			model.ServiceMarketing:      "Marketing",
		},
		Others: "Outros",

		Close:            "Fechar",
		GeneratePDF:      "Gerar PDF",
		ContractPreview:  "Visualização do Contrato",
		DownloadPDF:      "Baixar PDF",
		GeneratingPDF:    "Gerando PDF...",
		SendEmail:        "Enviar Contrato por E-mail",
		Sending:          "Enviando...",
		EmailSentSuccess: "E-mail enviado com sucesso!",
		EmailSentError:   "Erro ao enviar contrato por e-mail.",
	},
}
